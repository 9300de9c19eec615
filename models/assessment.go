package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PatientInput is the raw intake form: numeric vitals arrive as strings so
// malformed entries can be rejected with a field-level message instead of
// failing JSON decoding.
type PatientInput struct {
	Name           string `json:"name"`
	Age            string `json:"age"`
	Sex            string `json:"sex"`
	ChestPainType  string `json:"chest_pain_type"`
	RestingBP      string `json:"resting_bp"`
	Cholesterol    string `json:"cholesterol"`
	FastingBS      string `json:"fasting_bs"`
	RestingECG     string `json:"resting_ecg"`
	MaxHR          string `json:"max_hr"`
	ExerciseAngina string `json:"exercise_angina"`
	Oldpeak        string `json:"oldpeak"`
	STSlope        string `json:"st_slope"`
}

// RiskResult is the outcome of one assessment. Contributions is the dense
// per-feature explanation map; it never feeds back into inference.
type RiskResult struct {
	RiskPercent   float64            `json:"risk_percent"`
	RiskCategory  string             `json:"risk_category"`
	Reasons       []string           `json:"reasons"`
	Contributions map[string]float64 `json:"contributions"`
}

// Assessment is a persisted assessment record
type Assessment struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Age            int            `db:"age" json:"age"`
	Sex            string         `db:"sex" json:"sex"`
	ChestPainType  string         `db:"chest_pain_type" json:"chest_pain_type"`
	RestingBP      int            `db:"resting_bp" json:"resting_bp"`
	Cholesterol    int            `db:"cholesterol" json:"cholesterol"`
	FastingBS      string         `db:"fasting_bs" json:"fasting_bs"`
	RestingECG     string         `db:"resting_ecg" json:"resting_ecg"`
	MaxHR          int            `db:"max_hr" json:"max_hr"`
	ExerciseAngina string         `db:"exercise_angina" json:"exercise_angina"`
	Oldpeak        float64        `db:"oldpeak" json:"oldpeak"`
	STSlope        string         `db:"st_slope" json:"st_slope"`
	RiskPercent    float64        `db:"risk_percent" json:"risk_percent"`
	RiskCategory   string         `db:"risk_category" json:"risk_category"`
	Reasons        pq.StringArray `db:"reasons" json:"reasons"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
