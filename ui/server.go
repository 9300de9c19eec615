package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"

	"kardia/app"
	"kardia/domain/core"
	"kardia/internal"
	apperrors "kardia/internal/errors"
	"kardia/models"
	"kardia/ports"
)

// Server is the JSON API for risk assessment
type Server struct {
	router      *gin.Engine
	assessments *app.AssessmentService
	repository  ports.AssessmentRepository
	advisor     ports.Advisor
	logger      *internal.Logger
}

// Config holds API server configuration
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates the API server. Repository and advisor may be nil; the
// matching routes then respond 503.
func NewServer(
	config Config,
	assessments *app.AssessmentService,
	repository ports.AssessmentRepository,
	advisor ports.Advisor,
	logger *internal.Logger,
) *Server {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	s := &Server{
		router:      gin.Default(),
		assessments: assessments,
		repository:  repository,
		advisor:     advisor,
		logger:      logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/predict", s.handlePredict)
	api.GET("/weights", s.handleWeights)
	api.POST("/advice", s.handleAdvice)

	// Same pipeline as predict; kept as a resource-style alias.
	api.POST("/assessments", s.handlePredict)
	api.GET("/assessments", s.handleListAssessments)
	api.GET("/assessments/:id", s.handleGetAssessment)
	api.DELETE("/assessments/:id", s.handleDeleteAssessment)
}

// Router exposes the underlying handler for serving and tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server on the configured port
func (s *Server) Start(port string) error {
	s.logger.Info("starting API server on :%s", port)
	return s.router.Run(":" + port)
}

func (s *Server) handlePredict(c *gin.Context) {
	var patient models.PatientInput
	if err := c.ShouldBindJSON(&patient); err != nil {
		s.writeError(c, core.NewValidationError("body", "malformed JSON"))
		return
	}

	result, err := s.assessments.Assess(c.Request.Context(), patient)
	if err != nil {
		s.writeError(c, err)
		return
	}

	response := gin.H{
		"result":  result,
		"weights": s.assessments.FeatureImportance(),
	}
	if s.repository != nil {
		assessment, err := s.assessments.Save(c.Request.Context(), patient, result)
		if err != nil {
			s.writeError(c, err)
			return
		}
		response["assessment"] = assessment
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleWeights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"weights": s.assessments.FeatureImportance()})
}

func (s *Server) handleAdvice(c *gin.Context) {
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    apperrors.CodeExternalService,
			"message": "advice generation is not configured",
		})
		return
	}

	var patient models.PatientInput
	if err := c.ShouldBindJSON(&patient); err != nil {
		s.writeError(c, core.NewValidationError("body", "malformed JSON"))
		return
	}

	result, err := s.assessments.Assess(c.Request.Context(), patient)
	if err != nil {
		s.writeError(c, err)
		return
	}

	advice, err := s.advisor.Advise(c.Request.Context(), patient, *result)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":          result,
		"advice_markdown": advice,
		"advice_html":     renderMarkdown(advice),
	})
}

func (s *Server) handleListAssessments(c *gin.Context) {
	if s.repository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    apperrors.CodeDatabaseError,
			"message": "persistence is not configured",
		})
		return
	}
	assessments, err := s.repository.List(c.Request.Context(), 50)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": assessments})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	if s.repository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    apperrors.CodeDatabaseError,
			"message": "persistence is not configured",
		})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.writeError(c, core.NewValidationError("id", "must be a UUID"))
		return
	}
	assessment, err := s.repository.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (s *Server) handleDeleteAssessment(c *gin.Context) {
	if s.repository == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    apperrors.CodeDatabaseError,
			"message": "persistence is not configured",
		})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.writeError(c, core.NewValidationError("id", "must be a UUID"))
		return
	}
	if err := s.repository.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError is the single translation point from pipeline errors to HTTP.
// Validation problems are the caller's fault, inference-space problems mean
// the input cannot be scored, everything else is a server fault.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternalError

	switch {
	case core.IsValidationError(err):
		status, code = http.StatusBadRequest, apperrors.CodeValidationError
	case core.IsInferenceError(err):
		status, code = http.StatusUnprocessableEntity, apperrors.CodeInferenceError
	case core.IsModelLoadError(err):
		code = apperrors.CodeModelLoadError
	default:
		switch apperrors.GetCode(err) {
		case apperrors.CodeNotFound:
			status, code = http.StatusNotFound, apperrors.CodeNotFound
		case apperrors.CodeDatabaseError:
			code = apperrors.CodeDatabaseError
		case apperrors.CodeExternalService:
			status, code = http.StatusBadGateway, apperrors.CodeExternalService
		}
	}

	if status >= 500 {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	c.JSON(status, gin.H{"code": code, "message": err.Error()})
}

func renderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
