package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "kardia/internal/errors"
	"kardia/models"
	"kardia/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	age             INTEGER NOT NULL,
	sex             TEXT NOT NULL,
	chest_pain_type TEXT NOT NULL,
	resting_bp      INTEGER NOT NULL,
	cholesterol     INTEGER NOT NULL,
	fasting_bs      TEXT NOT NULL,
	resting_ecg     TEXT NOT NULL,
	max_hr          INTEGER NOT NULL,
	exercise_angina TEXT NOT NULL,
	oldpeak         DOUBLE PRECISION NOT NULL,
	st_slope        TEXT NOT NULL,
	risk_percent    DOUBLE PRECISION NOT NULL,
	risk_category   TEXT NOT NULL,
	reasons         TEXT[] NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// AssessmentRepositoryImpl implements AssessmentRepository for PostgreSQL
type AssessmentRepositoryImpl struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a PostgreSQL assessment repository and
// ensures its table exists.
func NewAssessmentRepository(db *sqlx.DB) (ports.AssessmentRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, apperrors.Wrap(err, "creating assessments table")
	}
	return &AssessmentRepositoryImpl{db: db}, nil
}

// Save inserts a completed assessment, assigning its ID
func (r *AssessmentRepositoryImpl) Save(ctx context.Context, assessment *models.Assessment) error {
	assessment.ID = uuid.New()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO assessments (
			id, name, age, sex, chest_pain_type, resting_bp, cholesterol,
			fasting_bs, resting_ecg, max_hr, exercise_angina, oldpeak, st_slope,
			risk_percent, risk_category, reasons, created_at
		) VALUES (
			:id, :name, :age, :sex, :chest_pain_type, :resting_bp, :cholesterol,
			:fasting_bs, :resting_ecg, :max_hr, :exercise_angina, :oldpeak, :st_slope,
			:risk_percent, :risk_category, :reasons, NOW()
		)
	`, assessment)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// GetByID retrieves one assessment
func (r *AssessmentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.GetContext(ctx, &assessment, `
		SELECT * FROM assessments WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("assessment")
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return &assessment, nil
}

// List returns the most recent assessments
func (r *AssessmentRepositoryImpl) List(ctx context.Context, limit int) ([]*models.Assessment, error) {
	if limit <= 0 {
		limit = 50
	}
	var assessments []*models.Assessment
	err := r.db.SelectContext(ctx, &assessments, `
		SELECT * FROM assessments ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return assessments, nil
}

// Delete removes an assessment
func (r *AssessmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NotFound("assessment")
	}
	return nil
}
