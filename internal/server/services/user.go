// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/auth"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/config"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tyrekeeper/internal/validation"
)

// Credentials is the register/login payload.
type Credentials struct {
	Username string `json:"username" validate:"required,max=255,trimmed"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// UserService provides authentication-related operations:
// - Register: create users with a bcrypt password digest
// - Login: verify credentials and mint an access token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      auth.PasswordHasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      auth.NewBcryptHasher(cfg.BcryptCost),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		log:                         log.With("module", "users"),
	}
}

// Register validates the credentials and stores a new user. A taken
// username yields an error matching common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, in Credentials) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{UserName: in.Username, PasswordHash: hash}
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed access token.
// Unknown users and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in Credentials) (string, error) {
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).GetUserByLogin(ctx, in.Username)
		return err
	})
	// the connection is back in the pool before bcrypt runs
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.CompareDummy(in.Password)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error fetching user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error comparing password: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	s.log.Debug(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}
