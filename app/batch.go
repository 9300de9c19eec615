package app

import (
	"context"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"kardia/internal"
	"kardia/models"
)

// BatchResult pairs one input row with its outcome. Failed rows carry the
// error message instead of aborting the run.
type BatchResult struct {
	Index  int                `json:"index"`
	Name   string             `json:"name"`
	Result *models.RiskResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total       int     `json:"total"`
	Failed      int     `json:"failed"`
	MeanRisk    float64 `json:"mean_risk"`
	MaxRisk     float64 `json:"max_risk"`
	VeryHighCnt int     `json:"very_high_count"`
}

// BatchService assesses many patients concurrently with a bounded worker
// pool. Each row is independent, so failures never cancel the group.
type BatchService struct {
	assessments *AssessmentService
	workers     int
	logger      *internal.Logger
}

// NewBatchService creates a batch runner with the given concurrency limit
func NewBatchService(assessments *AssessmentService, workers int, logger *internal.Logger) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{assessments: assessments, workers: workers, logger: logger}
}

// Run assesses every patient and returns per-row results in input order
// plus an aggregate summary.
func (s *BatchService) Run(ctx context.Context, patients []models.PatientInput) ([]BatchResult, BatchSummary, error) {
	results := make([]BatchResult, len(patients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, patient := range patients {
		g.Go(func() error {
			result, err := s.assessments.Assess(gctx, patient)
			if err != nil {
				results[i] = BatchResult{Index: i, Name: patient.Name, Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{Index: i, Name: patient.Name, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BatchSummary{}, err
	}

	summary := summarize(results)
	s.logger.Info("batch complete: total=%d failed=%d mean=%.2f%%",
		summary.Total, summary.Failed, summary.MeanRisk)
	return results, summary, nil
}

func summarize(results []BatchResult) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	risks := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			summary.Failed++
			continue
		}
		risks = append(risks, r.Result.RiskPercent)
		if r.Result.RiskCategory == "Very High" {
			summary.VeryHighCnt++
		}
	}
	if len(risks) == 0 {
		return summary
	}

	if mean, err := stats.Mean(risks); err == nil {
		if rounded, err := stats.Round(mean, 2); err == nil {
			mean = rounded
		}
		summary.MeanRisk = mean
	}
	if max, err := stats.Max(risks); err == nil {
		summary.MaxRisk = max
	}
	return summary
}
