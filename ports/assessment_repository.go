package ports

import (
	"context"

	"github.com/google/uuid"

	"kardia/models"
)

// AssessmentRepository persists completed assessments
type AssessmentRepository interface {
	Save(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error)
	List(ctx context.Context, limit int) ([]*models.Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
