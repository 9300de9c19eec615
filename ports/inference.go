package ports

import (
	"context"

	"kardia/domain/core"
)

// Distribution is a proper probability distribution over a variable's
// domain, indexed by encoder code.
type Distribution []float64

// InferencePort answers conditional queries against the loaded network
type InferencePort interface {
	// Query returns P(target | evidence). Implementations must be safe for
	// concurrent use over the shared read-only model.
	Query(ctx context.Context, target core.FeatureName, evidence core.Evidence) (Distribution, error)
}
