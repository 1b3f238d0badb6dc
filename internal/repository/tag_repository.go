package repository

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepository справочник предметов
type TagRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)
}

type postgresTagRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTagRepository(pool *pgxpool.Pool) TagRepository {
	return &postgresTagRepository{pool: pool}
}

// GetByID получает тег по ID
func (r *postgresTagRepository) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	query := `SELECT id, name FROM tags WHERE id = $1`

	var tag model.Tag
	err := r.pool.QueryRow(ctx, query, id).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag by id: %w", err)
	}
	return &tag, nil
}

// List получает все теги по алфавиту
func (r *postgresTagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}
