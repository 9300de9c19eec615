package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "kardia/internal/errors"
	"kardia/models"
	"kardia/ports"
)

const systemPrompt = "Anda adalah seorang dokter spesialis jantung. Berikan saran gaya hidup " +
	"yang praktis dan singkat dalam Bahasa Indonesia, dalam format markdown, " +
	"berdasarkan profil risiko pasien berikut. Jangan memberikan diagnosis."

// Config holds the advice client settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiAdvisor generates advice through the Gemini generateContent API
type GeminiAdvisor struct {
	config Config
	client *http.Client
}

// NewGeminiAdvisor creates an advisor backed by the Gemini API
func NewGeminiAdvisor(config Config) (*GeminiAdvisor, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &GeminiAdvisor{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

var _ ports.Advisor = (*GeminiAdvisor)(nil)

// Advise asks the model for lifestyle advice matching the patient's profile
func (a *GeminiAdvisor) Advise(ctx context.Context, patient models.PatientInput, result models.RiskResult) (string, error) {
	prompt := buildPrompt(patient, result)

	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Parts []part `json:"parts"`
	}
	type reqBody struct {
		SystemInstruction content   `json:"system_instruction"`
		Contents          []content `json:"contents"`
	}
	body := reqBody{
		SystemInstruction: content{Parts: []part{{Text: systemPrompt}}},
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(a.config.BaseURL, "/"), a.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.config.APIKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", apperrors.ExternalServiceError("gemini", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.ExternalServiceError("gemini",
			fmt.Errorf("http %d: %s", resp.StatusCode, string(respRaw)))
	}

	type respBody struct {
		Candidates []struct {
			Content struct {
				Parts []part `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.ExternalServiceError("gemini",
			fmt.Errorf("response missing candidates"))
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(patient models.PatientInput, result models.RiskResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profil pasien:\n")
	fmt.Fprintf(&b, "- Usia: %s tahun\n", patient.Age)
	fmt.Fprintf(&b, "- Jenis kelamin: %s\n", patient.Sex)
	fmt.Fprintf(&b, "- Tekanan darah istirahat: %s mmHg\n", patient.RestingBP)
	fmt.Fprintf(&b, "- Kolesterol: %s mg/dl\n", patient.Cholesterol)
	fmt.Fprintf(&b, "- Detak jantung maksimum: %s\n", patient.MaxHR)
	fmt.Fprintf(&b, "\nHasil penilaian: risiko %.2f%% (%s)\n", result.RiskPercent, result.RiskCategory)
	fmt.Fprintf(&b, "Faktor yang menonjol:\n")
	for _, reason := range result.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	return b.String()
}

// MockAdvisor is an advisor stub for testing and keyless deployments
type MockAdvisor struct {
	Response string
	Error    error
}

func (m *MockAdvisor) Advise(ctx context.Context, patient models.PatientInput, result models.RiskResult) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "## Saran Gaya Hidup\n\nJaga pola makan seimbang, tidur cukup, dan periksakan diri secara berkala.", nil
}
