package core

// FeatureName identifies a clinical variable in the model's schema
type FeatureName string

// The eleven clinical input features plus the target variable share one
// namespace; the target never appears in evidence.

// Evidence maps observed features to their encoded values
type Evidence map[FeatureName]int
