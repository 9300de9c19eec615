package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kardia/adapters/artifact"
	"kardia/adapters/bayes"
	"kardia/adapters/llm"
	"kardia/app"
	"kardia/internal"
	"kardia/models"
)

func testServer(t *testing.T, advisor *llm.MockAdvisor) *Server {
	t.Helper()
	pkg, _, err := artifact.Load("")
	require.NoError(t, err)

	logger := internal.NewLogger(internal.LogLevelError)
	engine := bayes.NewEngine(pkg.Network)
	assessments := app.NewAssessmentService(pkg, engine, nil, logger)

	config := Config{GinMode: "test"}
	if advisor != nil {
		return NewServer(config, assessments, nil, advisor, logger)
	}
	return NewServer(config, assessments, nil, nil, logger)
}

func postJSON(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func validPatient() models.PatientInput {
	return models.PatientInput{
		Name:           "Budi",
		Age:            "61",
		Sex:            "M",
		ChestPainType:  "ASY",
		RestingBP:      "145",
		Cholesterol:    "250",
		FastingBS:      "1",
		RestingECG:     "ST",
		MaxHR:          "110",
		ExerciseAngina: "Y",
		Oldpeak:        "2.5",
		STSlope:        "Flat",
	}
}

func TestPredict_OK(t *testing.T) {
	server := testServer(t, nil)

	rec := postJSON(t, server, "/api/predict", validPatient())
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result  models.RiskResult  `json:"result"`
		Weights map[string]float64 `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Very High", body.Result.RiskCategory)
	assert.Greater(t, body.Result.RiskPercent, 70.0)
	assert.NotEmpty(t, body.Result.Reasons)
	assert.Len(t, body.Result.Contributions, 11)
	assert.Len(t, body.Weights, 11)
}

func TestPredict_ValidationFailure(t *testing.T) {
	server := testServer(t, nil)

	patient := validPatient()
	patient.Age = "abc"
	rec := postJSON(t, server, "/api/predict", patient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestPredict_UnknownSymbol(t *testing.T) {
	server := testServer(t, nil)

	patient := validPatient()
	patient.STSlope = "Sideways"
	rec := postJSON(t, server, "/api/predict", patient)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INFERENCE_ERROR", body["code"])
}

func TestPredict_MalformedJSON(t *testing.T) {
	server := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeights(t *testing.T) {
	server := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/weights", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Weights map[string]float64 `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Weights, 11)
}

func TestAdvice_WithMockAdvisor(t *testing.T) {
	server := testServer(t, &llm.MockAdvisor{Response: "## Saran\n\nKurangi garam."})

	rec := postJSON(t, server, "/api/advice", validPatient())
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AdviceMarkdown string `json:"advice_markdown"`
		AdviceHTML     string `json:"advice_html"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "## Saran\n\nKurangi garam.", body.AdviceMarkdown)
	assert.Contains(t, body.AdviceHTML, "<h2")
	assert.Contains(t, body.AdviceHTML, "Kurangi garam.")
}

func TestAdvice_NotConfigured(t *testing.T) {
	server := testServer(t, nil)

	rec := postJSON(t, server, "/api/advice", validPatient())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAssessments_NoPersistence(t *testing.T) {
	server := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/assessments", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOpsRouter_Health(t *testing.T) {
	router := OpsRouter("2024.1 (embedded)", internal.NewLogger(internal.LogLevelError))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/modelz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024.1")
}
