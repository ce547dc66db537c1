package tyres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tyre *models.Tyre) (*models.Tyre, error) {
	query :=
		`INSERT INTO tyres (brand, model, size, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, tyre.Brand, tyre.Model, tyre.Size, tyre.UserID).Scan(&tyre.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tyre, nil
}

// ListByUser returns the user's tyres ordered by id. The result is never nil.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Tyre, error) {
	query :=
		`SELECT id, brand, model, size, user_id, created_at FROM tyres
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Tyre, 0)
	for rows.Next() {
		var t models.Tyre
		if err := rows.Scan(&t.ID, &t.Brand, &t.Model, &t.Size, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tyre *models.Tyre) (int64, error) {
	query :=
		`UPDATE tyres SET brand = $1, model = $2, size = $3
		 WHERE id = $4 AND user_id = $5
		 `

	res, err := r.db.ExecContext(ctx, query, tyre.Brand, tyre.Model, tyre.Size, tyre.ID, tyre.UserID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) (int64, error) {
	query :=
		`DELETE FROM tyres
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
