package app

import (
	"context"
	"math"
	"strconv"

	"github.com/lib/pq"
	"github.com/montanaflynn/stats"

	"kardia/domain/core"
	"kardia/domain/model"
	"kardia/domain/risk"
	"kardia/internal"
	"kardia/models"
	"kardia/ports"
)

// Risk category boundaries in percent. Values exactly on a boundary fall
// into the lower category.
const (
	veryHighThreshold = 70.0
	mediumThreshold   = 40.0
)

// AssessmentService runs the full assessment pipeline: raw intake form to
// evidence, evidence to posterior, posterior to risk verdict. The model
// package is read-only, so one service instance serves concurrent requests.
type AssessmentService struct {
	pkg        *model.ModelPackage
	engine     ports.InferencePort
	scorer     *risk.Scorer
	repository ports.AssessmentRepository
	logger     *internal.Logger
}

// NewAssessmentService creates an assessment service. The repository may be
// nil when persistence is not configured.
func NewAssessmentService(
	pkg *model.ModelPackage,
	engine ports.InferencePort,
	repository ports.AssessmentRepository,
	logger *internal.Logger,
) *AssessmentService {
	return &AssessmentService{
		pkg:        pkg,
		engine:     engine,
		scorer:     risk.NewScorer(),
		repository: repository,
		logger:     logger,
	}
}

// Assess runs one patient through the pipeline. Any invalid field fails the
// whole assessment; there are no partial results.
func (s *AssessmentService) Assess(ctx context.Context, patient models.PatientInput) (*models.RiskResult, error) {
	evidence, reasons, contributions, err := s.buildEvidence(patient)
	if err != nil {
		return nil, err
	}

	dist, err := s.engine.Query(ctx, s.pkg.Target, evidence)
	if err != nil {
		return nil, err
	}

	percent := dist[s.pkg.PositiveCode()] * 100
	if rounded, err := stats.Round(percent, 2); err == nil {
		percent = rounded
	}

	if len(reasons) == 0 {
		reasons = append(reasons, risk.DefaultReason)
	}

	s.logger.Debug("assessment complete: risk=%.2f%% reasons=%d", percent, len(reasons))
	return &models.RiskResult{
		RiskPercent:   percent,
		RiskCategory:  categorize(percent),
		Reasons:       reasons,
		Contributions: contributions,
	}, nil
}

// Save persists a completed assessment when a repository is configured;
// without one it just materializes the record.
func (s *AssessmentService) Save(ctx context.Context, patient models.PatientInput, result *models.RiskResult) (*models.Assessment, error) {
	assessment, err := buildRecord(patient, result)
	if err != nil {
		return nil, err
	}
	if s.repository != nil {
		if err := s.repository.Save(ctx, assessment); err != nil {
			return nil, err
		}
		s.logger.Info("assessment saved: id=%s risk=%.2f%%", assessment.ID, result.RiskPercent)
	}
	return assessment, nil
}

// FeatureImportance returns the static display weights
func (s *AssessmentService) FeatureImportance() risk.FeatureImportance {
	return risk.NormalizedImportance()
}

// buildEvidence walks the model's feature list in order, discretizing and
// encoding each raw field and collecting the risk explanation along the way.
// Iteration order is fixed by the feature list, so reasons are reproducible.
func (s *AssessmentService) buildEvidence(patient models.PatientInput) (core.Evidence, []string, map[string]float64, error) {
	evidence := make(core.Evidence, len(s.pkg.Features))
	contributions := make(map[string]float64, len(s.pkg.Features))
	var reasons []string

	for _, feature := range s.pkg.Features {
		raw, err := fieldValue(patient, feature)
		if err != nil {
			return nil, nil, nil, err
		}

		category := raw
		var reasonValue any = raw
		if s.pkg.IsNumeric(feature) {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, nil, nil, core.NewValidationError(string(feature), "must be numeric")
			}
			category, err = s.pkg.Discretizer.Discretize(feature, value)
			if err != nil {
				return nil, nil, nil, err
			}
			reasonValue = displayValue(value)
		}

		score := s.scorer.Score(feature, category, reasonValue)
		contributions[string(feature)] = score.Contribution
		if score.Reason != "" {
			reasons = append(reasons, score.Reason)
		}

		enc, ok := s.pkg.Encoder(feature)
		if !ok {
			return nil, nil, nil, core.NewUnknownVariableError(string(feature))
		}
		code, err := enc.Encode(category)
		if err != nil {
			return nil, nil, nil, err
		}
		evidence[feature] = code
	}

	return evidence, reasons, contributions, nil
}

// fieldValue maps a model feature to the raw intake form field
func fieldValue(patient models.PatientInput, feature core.FeatureName) (string, error) {
	var raw string
	switch feature {
	case "Age":
		raw = patient.Age
	case "Sex":
		raw = patient.Sex
	case "ChestPainType":
		raw = patient.ChestPainType
	case "RestingBP":
		raw = patient.RestingBP
	case "Cholesterol":
		raw = patient.Cholesterol
	case "FastingBS":
		raw = patient.FastingBS
	case "RestingECG":
		raw = patient.RestingECG
	case "MaxHR":
		raw = patient.MaxHR
	case "ExerciseAngina":
		raw = patient.ExerciseAngina
	case "Oldpeak":
		raw = patient.Oldpeak
	case "ST_Slope":
		raw = patient.STSlope
	default:
		return "", core.NewUnknownVariableError(string(feature))
	}
	if raw == "" {
		return "", core.NewMissingFieldError(string(feature))
	}
	return raw, nil
}

// displayValue keeps whole numbers whole in reason text (60, not 60.0)
func displayValue(value float64) any {
	if value == math.Trunc(value) {
		return int(value)
	}
	return value
}

func categorize(percent float64) string {
	switch {
	case percent > veryHighThreshold:
		return "Very High"
	case percent > mediumThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// buildRecord converts a validated intake form plus its result into a
// persistable record
func buildRecord(patient models.PatientInput, result *models.RiskResult) (*models.Assessment, error) {
	age, err := strconv.Atoi(patient.Age)
	if err != nil {
		return nil, core.NewValidationError("Age", "must be an integer")
	}
	restingBP, err := strconv.Atoi(patient.RestingBP)
	if err != nil {
		return nil, core.NewValidationError("RestingBP", "must be an integer")
	}
	cholesterol, err := strconv.Atoi(patient.Cholesterol)
	if err != nil {
		return nil, core.NewValidationError("Cholesterol", "must be an integer")
	}
	maxHR, err := strconv.Atoi(patient.MaxHR)
	if err != nil {
		return nil, core.NewValidationError("MaxHR", "must be an integer")
	}
	oldpeak, err := strconv.ParseFloat(patient.Oldpeak, 64)
	if err != nil {
		return nil, core.NewValidationError("Oldpeak", "must be numeric")
	}

	return &models.Assessment{
		Name:           patient.Name,
		Age:            age,
		Sex:            patient.Sex,
		ChestPainType:  patient.ChestPainType,
		RestingBP:      restingBP,
		Cholesterol:    cholesterol,
		FastingBS:      patient.FastingBS,
		RestingECG:     patient.RestingECG,
		MaxHR:          maxHR,
		ExerciseAngina: patient.ExerciseAngina,
		Oldpeak:        oldpeak,
		STSlope:        patient.STSlope,
		RiskPercent:    result.RiskPercent,
		RiskCategory:   result.RiskCategory,
		Reasons:        pq.StringArray(result.Reasons),
	}, nil
}
