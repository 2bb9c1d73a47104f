package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alqabandi/burgerhouse/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const mealColumns = `id, slug, name_en, name_ar,
	COALESCE(description_en,''), COALESCE(description_ar,''),
	COALESCE(category_en,''), COALESCE(category_ar,''),
	price_fils, COALESCE(image_url,''), is_active, created_at, updated_at`

func (r *Repository) ListActive(ctx context.Context) ([]domain.Meal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mealColumns+` FROM meals WHERE is_active ORDER BY name_en`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

// FindByIDs returns the meals for a set of ids, keyed by id. Callers decide
// what a missing id means.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Meal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals, err := scanMeals(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Meal, len(meals))
	for _, m := range meals {
		out[m.ID] = m
	}
	return out, nil
}

func scanMeals(rows pgx.Rows) ([]domain.Meal, error) {
	var meals []domain.Meal
	for rows.Next() {
		var m domain.Meal
		if err := rows.Scan(&m.ID, &m.Slug, &m.NameEN, &m.NameAR,
			&m.DescriptionEN, &m.DescriptionAR, &m.CategoryEN, &m.CategoryAR,
			&m.PriceFils, &m.ImageURL, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}
