package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/auth"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tyrekeeper/internal/validation"
)

// TyreInput is the create/update payload. The owner always comes from the
// caller's identity, never from the payload.
type TyreInput struct {
	Brand string `json:"brand" validate:"required,max=100"`
	Model string `json:"model" validate:"required,max=100"`
	Size  string `json:"size" validate:"required,max=100"`
}

// TyreService implements owner-scoped CRUD on tyres.
type TyreService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTyreService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *TyreService {
	return &TyreService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "tyres"),
	}
}

func requireIdentity(id auth.Identity) error {
	if id.UserID <= 0 {
		return common.ErrInvalidToken
	}
	return nil
}

func validTyreID(tyreID int64) error {
	if tyreID <= 0 {
		return validation.Invalid("id", "must be a positive integer")
	}
	return nil
}

// Create stores a new tyre owned by id.
func (s *TyreService) Create(ctx context.Context, id auth.Identity, in TyreInput) (*models.Tyre, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	tyre := &models.Tyre{UserID: id.UserID, Brand: in.Brand, Model: in.Model, Size: in.Size}
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		tyre, err = s.repomanager.Tyres(conn).Create(ctx, tyre)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating tyre: %w", err)
	}

	s.log.Info(ctx, "tyre created", "user_id", id.UserID, "tyre_id", tyre.ID)
	return tyre, nil
}

// List returns every tyre owned by id, ordered by tyre id.
func (s *TyreService) List(ctx context.Context, id auth.Identity) ([]models.Tyre, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	var list []models.Tyre
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Tyres(conn).ListByUser(ctx, id.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error listing tyres: %w", err)
	}
	if list == nil {
		list = []models.Tyre{}
	}
	return list, nil
}

// Update overwrites the tyre if id owns it. A tyre that does not exist or
// belongs to someone else is left untouched and the call still succeeds.
func (s *TyreService) Update(ctx context.Context, id auth.Identity, tyreID int64, in TyreInput) (*models.Tyre, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := validTyreID(tyreID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	tyre := &models.Tyre{ID: tyreID, UserID: id.UserID, Brand: in.Brand, Model: in.Model, Size: in.Size}
	var affected int64
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		affected, err = s.repomanager.Tyres(conn).Update(ctx, tyre)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating tyre: %w", err)
	}

	s.log.Info(ctx, "tyre updated", "user_id", id.UserID, "tyre_id", tyreID, "rows_affected", affected)
	return tyre, nil
}

// Delete removes the tyre if id owns it, with the same no-op rule as Update.
func (s *TyreService) Delete(ctx context.Context, id auth.Identity, tyreID int64) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := validTyreID(tyreID); err != nil {
		return err
	}

	var affected int64
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		affected, err = s.repomanager.Tyres(conn).Delete(ctx, id.UserID, tyreID)
		return err
	})
	if err != nil {
		return fmt.Errorf("error deleting tyre: %w", err)
	}

	s.log.Info(ctx, "tyre deleted", "user_id", id.UserID, "tyre_id", tyreID, "rows_affected", affected)
	return nil
}
