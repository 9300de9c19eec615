package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"kardia/adapters/artifact"
	"kardia/adapters/bayes"
	"kardia/adapters/llm"
	"kardia/adapters/postgres"
	"kardia/app"
	"kardia/internal"
	"kardia/internal/config"
	"kardia/ports"
	"kardia/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	// The model is load-bearing: without it there is nothing to serve.
	pkg, version, err := artifact.Load(appConfig.Model.File)
	if err != nil {
		log.Fatalf("Failed to load model artifact: %v", err)
	}
	logger.Info("model loaded: %s", version)

	var repository ports.AssessmentRepository
	if appConfig.Database.URL != "" {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repository, err = postgres.NewAssessmentRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize assessment repository: %v", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set, assessments will not be persisted")
	}

	var advisor ports.Advisor
	if appConfig.AI.APIKey != "" {
		advisor, err = llm.NewGeminiAdvisor(llm.Config{
			APIKey:  appConfig.AI.APIKey,
			Model:   appConfig.AI.Model,
			BaseURL: appConfig.AI.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize advisor: %v", err)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, advice endpoint disabled")
	}

	engine := bayes.NewEngine(pkg.Network)
	assessments := app.NewAssessmentService(pkg, engine, repository, logger)

	if appConfig.Ops.Enabled {
		go func() {
			if err := ui.StartOps(appConfig.Ops.Port, version, logger); err != nil {
				logger.Error("ops server failed: %v", err)
			}
		}()
	}

	server := ui.NewServer(ui.Config{
		Port:    appConfig.Server.Port,
		GinMode: appConfig.Server.GinMode,
	}, assessments, repository, advisor, logger)
	log.Fatal(server.Start(appConfig.Server.Port))
}
