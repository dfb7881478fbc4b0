package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skillswap/internal/model"
)

type skillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) SkillRepository {
	return &skillRepository{db: db}
}

// Create inserts a new skill. Exactly one of OfferedBy/WantedBy must be set;
// the table's CHECK constraint backs this up.
func (r *skillRepository) Create(ctx context.Context, s *model.Skill) error {
	query := `
		INSERT INTO skills (name, offered_by, wanted_by, availability)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query, s.Name, s.OfferedBy, s.WantedBy, s.Availability).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert skill: %w", err)
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id int64) (*model.Skill, error) {
	query := `SELECT id, name, offered_by, wanted_by, availability FROM skills WHERE id = $1`

	var s model.Skill
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill by id: %w", err)
	}
	return &s, nil
}

// Update writes name, availability and both owner columns in one statement,
// so a kind toggle swaps the owner columns atomically.
func (r *skillRepository) Update(ctx context.Context, s *model.Skill) error {
	query := `
		UPDATE skills
		SET name = $2, offered_by = $3, wanted_by = $4, availability = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.OfferedBy, s.WantedBy, s.Availability)
	if err != nil {
		return fmt.Errorf("failed to update skill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSkillNotFound
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSkillNotFound
	}
	return nil
}

func (r *skillRepository) ListByOwner(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error) {
	column := "offered_by"
	if kind == model.SkillWanted {
		column = "wanted_by"
	}

	query := fmt.Sprintf(`
		SELECT id, name, offered_by, wanted_by, availability
		FROM skills
		WHERE %s = $1
		ORDER BY name
	`, column)

	var skills []model.Skill
	err := r.db.SelectContext(ctx, &skills, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills by owner: %w", err)
	}
	return skills, nil
}

func (r *skillRepository) SearchByName(ctx context.Context, query string, limit int) ([]model.Skill, error) {
	searchQuery := `
		SELECT id, name, offered_by, wanted_by, availability
		FROM skills
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2
	`

	var skills []model.Skill
	err := r.db.SelectContext(ctx, &skills, searchQuery, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search skills: %w", err)
	}
	return skills, nil
}
