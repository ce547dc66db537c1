package services

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/logging"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
	tyresrepo "github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/tyres"
	usersrepo "github.com/dmitrijs2005/tyrekeeper/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func discardLogger() logging.Logger {
	return logging.New(io.Discard, logging.Options{Level: "error"})
}

type fakeUsersRepo struct {
	created   []*models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type updateCall struct {
	tyre models.Tyre
}

type fakeTyresRepo struct {
	createOut *models.Tyre
	createIn  *models.Tyre
	createErr error

	listOut  []models.Tyre
	listUser int64
	listErr  error

	updates   []updateCall
	updateN   int64
	updateErr error

	deletes   [][2]int64
	deleteN   int64
	deleteErr error
}

func (f *fakeTyresRepo) Create(ctx context.Context, t *models.Tyre) (*models.Tyre, error) {
	f.createIn = t
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	t.ID = 1
	return t, nil
}

func (f *fakeTyresRepo) ListByUser(ctx context.Context, userID int64) ([]models.Tyre, error) {
	f.listUser = userID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTyresRepo) Update(ctx context.Context, t *models.Tyre) (int64, error) {
	f.updates = append(f.updates, updateCall{tyre: *t})
	return f.updateN, f.updateErr
}

func (f *fakeTyresRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	f.deletes = append(f.deletes, [2]int64{userID, id})
	return f.deleteN, f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTyresRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository     { return m.u }
func (m *fakeRepoManager) Tyres(db dbx.DBTX) tyresrepo.Repository     { return m.t }
