package api

import (
	"codeshift/internal/cancellation"
	"codeshift/internal/code_translator"
	"codeshift/internal/sse"
	"codeshift/pkg/types"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type translateResponse struct {
	ID string `json:"id"`
	*code_translator.TranslationResult
}

func toTranslationRequest(req types.TranslateRequest) code_translator.TranslationRequest {
	return code_translator.TranslationRequest{
		SourceCode:     req.Code,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	}
}

func (s *GinServer) bindTranslateRequest(c *gin.Context) (types.TranslateRequest, bool) {
	var req types.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, string(code_translator.KindValidation), "Request body must be a JSON translation request.")
		return req, false
	}
	return req, true
}

// TranslateCode godoc
// @Summary Translate code from one language to another
// @Description Runs a single-shot translation and returns the extracted code with quality metrics
// @Tags translation
// @Accept json
// @Produce json
// @Param request body types.TranslateRequest true "Translation request"
// @Router /translate [post]
func (s *GinServer) TranslateCode(c *gin.Context) {
	req, ok := s.bindTranslateRequest(c)
	if !ok {
		return
	}

	id := uuid.NewString()
	s.logger.Info("translation request",
		zap.String("id", id),
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("code_length", len(req.Code)),
	)

	// a dropped connection cancels the job
	ctx := c.Request.Context()
	res, err := s.services.RunTranslate(ctx, id, toTranslationRequest(req), cancellation.FromContext(ctx))
	if err != nil {
		s.writeTranslationError(c, err)
		return
	}
	c.JSON(http.StatusOK, translateResponse{ID: id, TranslationResult: res})
}

// StartStream godoc
// @Summary Start a streaming translation
// @Description Creates a job whose fragments are read from /translate/stream/{id}
// @Tags translation
// @Accept json
// @Produce json
// @Param request body types.TranslateRequest true "Translation request"
// @Success 202 {object} types.TranslateJobResponse
// @Router /translate/stream [post]
func (s *GinServer) StartStream(c *gin.Context) {
	req, ok := s.bindTranslateRequest(c)
	if !ok {
		return
	}

	id := uuid.NewString()
	s.sseHub.Create(id)
	// register before replying so an immediate cancel finds the job
	s.services.Cancellations.Signal(id)

	s.logger.Info("translation job created",
		zap.String("id", id),
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("code_length", len(req.Code)),
	)
	c.JSON(http.StatusAccepted, types.TranslateJobResponse{
		ID:        id,
		StreamURL: "/translate/stream/" + id,
		CancelURL: "/translate/stream/" + id + "/cancel",
	})

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.runStreamJob(id, toTranslationRequest(req))
	}()
}

func (s *GinServer) runStreamJob(id string, req code_translator.TranslationRequest) {
	s.logger.Info("starting translation", zap.String("id", id))

	// translator will push fragments to the hub via the sink
	res, err := s.services.RunStream(s.jobsCtx, id, req, func(fragment string) error {
		return s.sseHub.Send(id, sse.Event{Type: sse.EventFragment, Data: fragment})
	})
	if err != nil {
		_ = s.sseHub.Send(id, sse.Event{Type: sse.EventError, Data: errorBody(err)})
	} else {
		_ = s.sseHub.Send(id, sse.Event{Type: sse.EventResult, Data: res})
	}
	// Always signal end, even on error
	_ = s.sseHub.Send(id, sse.Event{Type: sse.EventDone, Data: gin.H{"id": id}})
	s.logger.Info("translation job finished", zap.String("id", id), zap.Bool("failed", err != nil))
}

// StreamHandler attaches client to SSE stream
func (s *GinServer) StreamHandler(c *gin.Context) {
	id := c.Param("id")

	client, err := s.sseHub.AddClient(id)
	if errors.Is(err, sse.ErrUnknownStream) {
		writeError(c, http.StatusNotFound, "not_found", "Unknown translation job.")
		return
	}
	defer s.sseHub.RemoveClient(client)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		s.logger.Error("streaming not supported")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// Send initial connection message to establish the stream
	fmt.Fprintf(c.Writer, ": connected\n\n")
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		ev, ok := client.Next(ctx)
		if !ok {
			return
		}
		payload, err := json.Marshal(ev.Data)
		if err != nil {
			s.logger.Error("failed to encode stream event", zap.String("id", id), zap.Error(err))
			continue
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, payload)
		flusher.Flush()
	}
}

// CancelStream flags a running streaming job. The job observes it at its next fragment.
func (s *GinServer) CancelStream(c *gin.Context) {
	id := c.Param("id")
	err := s.services.Cancellations.Cancel(c.Request.Context(), id)
	switch {
	case errors.Is(err, cancellation.ErrUnknownJob):
		writeError(c, http.StatusNotFound, "not_found", "Unknown or finished translation job.")
	case err != nil:
		s.logger.Error("failed to cancel job", zap.String("id", id), zap.Error(err))
		writeError(c, http.StatusServiceUnavailable, "unavailable", "Could not cancel the translation job.")
	default:
		s.logger.Info("translation job cancel requested", zap.String("id", id))
		c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "cancelling"})
	}
}
