package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"kardia/models"
)

// PatientReader reads batch patient files in Excel or CSV format. The first
// row is the header; column names match the intake form field names,
// case-insensitively.
type PatientReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewPatientReader creates a reader for the given file, picking the format
// from the extension.
func NewPatientReader(filePath string) *PatientReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &PatientReader{filePath: filePath, fileType: fileType}
}

// Read loads every data row as a patient intake record
func (r *PatientReader) Read() ([]models.PatientInput, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("batch file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("batch file must have a header row and at least one data row")
	}

	return r.processRows(rows)
}

func (r *PatientReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *PatientReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *PatientReader) processRows(rows [][]string) ([]models.PatientInput, error) {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	patients := make([]models.PatientInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				record[headers[j]] = strings.TrimSpace(cell)
			}
		}
		patients = append(patients, patientFromRecord(record))
	}
	return patients, nil
}

func patientFromRecord(record map[string]string) models.PatientInput {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := record[k]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	return models.PatientInput{
		Name:           get("name"),
		Age:            get("age"),
		Sex:            get("sex"),
		ChestPainType:  get("chest_pain_type", "chestpaintype"),
		RestingBP:      get("resting_bp", "restingbp"),
		Cholesterol:    get("cholesterol"),
		FastingBS:      get("fasting_bs", "fastingbs"),
		RestingECG:     get("resting_ecg", "restingecg"),
		MaxHR:          get("max_hr", "maxhr"),
		ExerciseAngina: get("exercise_angina", "exerciseangina"),
		Oldpeak:        get("oldpeak"),
		STSlope:        get("st_slope", "stslope"),
	}
}
