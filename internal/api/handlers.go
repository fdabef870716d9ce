package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// handleFinalAnalysis validates the request and runs the analysis pipeline
func (s *Server) handleFinalAnalysis(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.WithError(err).Error("No JSON data received in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON data received"})
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		verr := &domain.ValidationError{MissingFields: missing}
		s.log.WithField("missing_fields", missing).Error("Request validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}

	s.log.WithFields(logrus.Fields{
		"disease":       req.Disease,
		"article_count": len(req.AnalyzedArticles),
	}).Debug("Received analysis request")

	analysis, err := s.analyzer.Analyze(c.Request.Context(), req.CaseContext(), req.AnalyzedArticles)
	if err != nil {
		var resErr *domain.EvidenceResolutionError
		if errors.As(err, &resErr) {
			s.log.WithError(err).Error("Evidence resolution failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve articles from literature store",
			})
			return
		}
		s.log.WithError(err).Error("Analysis generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate analysis",
		})
		return
	}

	c.JSON(http.StatusOK, domain.AnalysisResponse{
		Success:  true,
		Analysis: analysis,
	})
}
