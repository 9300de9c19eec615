package ports

import (
	"context"

	"kardia/models"
)

// Advisor generates lifestyle advice for a completed assessment. The
// returned text is markdown.
type Advisor interface {
	Advise(ctx context.Context, patient models.PatientInput, result models.RiskResult) (string, error)
}
