package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"brewhaven-backend/internal/models"
)

type CoffeeRepo struct {
	pool *pgxpool.Pool
}

func NewCoffeeRepo(pool *pgxpool.Pool) *CoffeeRepo {
	return &CoffeeRepo{pool: pool}
}

func (r *CoffeeRepo) Create(ctx context.Context, coffee *models.Coffee) error {
	coffee.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO coffees (id, name, description, type, category_id, image_url, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		coffee.ID, coffee.Name, coffee.Description, coffee.Type,
		coffee.CategoryID, coffee.ImageURL, coffee.Price,
	).Scan(&coffee.CreatedAt)
}

func (r *CoffeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Coffee, error) {
	coffee := &models.Coffee{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, type, category_id, image_url, price, created_at
		FROM coffees WHERE id = $1`, id,
	).Scan(
		&coffee.ID, &coffee.Name, &coffee.Description, &coffee.Type,
		&coffee.CategoryID, &coffee.ImageURL, &coffee.Price, &coffee.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return coffee, nil
}

func (r *CoffeeRepo) List(ctx context.Context) ([]models.Coffee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, type, category_id, image_url, price, created_at
		FROM coffees ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coffees := make([]models.Coffee, 0)
	for rows.Next() {
		var c models.Coffee
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Type,
			&c.CategoryID, &c.ImageURL, &c.Price, &c.CreatedAt); err != nil {
			return nil, err
		}
		coffees = append(coffees, c)
	}
	return coffees, rows.Err()
}

func (r *CoffeeRepo) Update(ctx context.Context, coffee *models.Coffee) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE coffees SET name = $1, description = $2, type = $3, category_id = $4,
			image_url = $5, price = $6
		WHERE id = $7`,
		coffee.Name, coffee.Description, coffee.Type, coffee.CategoryID,
		coffee.ImageURL, coffee.Price, coffee.ID,
	)
	return err
}

func (r *CoffeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM coffees WHERE id = $1", id)
	return err
}

func (r *CoffeeRepo) CountCoffees(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM coffees").Scan(&count)
	return count, err
}

func (r *CoffeeRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
