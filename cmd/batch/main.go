package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"

	"kardia/adapters/artifact"
	"kardia/adapters/bayes"
	"kardia/adapters/excel"
	"kardia/app"
	"kardia/internal"
	"kardia/internal/config"
)

// Batch assessment runner: reads an Excel or CSV patient file, scores every
// row concurrently, and prints the results as JSON.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	inputFile := appConfig.Batch.InputFile
	if len(os.Args) > 1 {
		inputFile = os.Args[1]
	}
	if inputFile == "" {
		log.Fatal("Usage: batch <patients.xlsx|patients.csv> (or set BATCH_FILE)")
	}

	pkg, version, err := artifact.Load(appConfig.Model.File)
	if err != nil {
		log.Fatalf("Failed to load model artifact: %v", err)
	}
	logger.Info("model loaded: %s", version)

	patients, err := excel.NewPatientReader(inputFile).Read()
	if err != nil {
		log.Fatalf("Failed to read batch file: %v", err)
	}
	logger.Info("read %d patients from %s", len(patients), inputFile)

	engine := bayes.NewEngine(pkg.Network)
	assessments := app.NewAssessmentService(pkg, engine, nil, logger)
	batch := app.NewBatchService(assessments, appConfig.Batch.Workers, logger)

	results, summary, err := batch.Run(context.Background(), patients)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	out := struct {
		Summary app.BatchSummary  `json:"summary"`
		Results []app.BatchResult `json:"results"`
	}{Summary: summary, Results: results}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
}
