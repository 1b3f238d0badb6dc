package repository

import (
	"context"
	"fmt"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TutorRepository профили репетиторов и предлагаемые ими предметы.
// Данные read-only для этого ядра, наполняются внешним приложением.
type TutorRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Tutor, error)
	OffersTag(ctx context.Context, tutorID, tagID int64) (bool, error)
}

type postgresTutorRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTutorRepository(pool *pgxpool.Pool) TutorRepository {
	return &postgresTutorRepository{pool: pool}
}

// GetByID получает профиль репетитора по ID
func (r *postgresTutorRepository) GetByID(ctx context.Context, id int64) (*model.Tutor, error) {
	query := `SELECT id, user_id FROM tutors WHERE id = $1`

	var tutor model.Tutor
	err := r.pool.QueryRow(ctx, query, id).Scan(&tutor.ID, &tutor.UserID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor by id: %w", err)
	}
	return &tutor, nil
}

// OffersTag проверяет предлагает ли репетитор предмет с данным тегом
func (r *postgresTutorRepository) OffersTag(ctx context.Context, tutorID, tagID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM tutor_tags WHERE tutor_id = $1 AND tag_id = $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, tutorID, tagID).Scan(&count); err != nil {
		return false, fmt.Errorf("check tutor tag: %w", err)
	}
	return count > 0, nil
}
