package api

import (
	"codeshift/internal/history"
	"codeshift/internal/services"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *GinServer) writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHistoryDisabled):
		writeError(c, http.StatusServiceUnavailable, "unavailable", "Translation history is not enabled.")
	case errors.Is(err, history.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", "Translation not found.")
	default:
		s.logger.Error("history lookup failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal", "Could not load translation history.")
	}
}

// ListTranslations returns the most recent translations, newest first.
func (s *GinServer) ListTranslations(c *gin.Context) {
	limit := history.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "validation", "limit must be an integer.")
			return
		}
		limit = n
	}

	records, err := s.services.ListTranslations(c.Request.Context(), limit)
	if err != nil {
		s.writeHistoryError(c, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"translations": records})
}

func (s *GinServer) GetTranslation(c *gin.Context) {
	rec, err := s.services.GetTranslation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
