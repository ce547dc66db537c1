package tyres

import (
	"context"

	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
)

// Repository stores tyres. Every read and write is scoped to one owner.
type Repository interface {
	Create(ctx context.Context, tyre *models.Tyre) (*models.Tyre, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Tyre, error)
	// Update and Delete report the number of rows touched; zero means the
	// id does not exist or belongs to someone else.
	Update(ctx context.Context, tyre *models.Tyre) (int64, error)
	Delete(ctx context.Context, userID, id int64) (int64, error)
}
