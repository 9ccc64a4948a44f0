package api

import (
	"codeshift/internal/code_translator"
	"codeshift/pkg/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusClientClosedRequest is reported for translations cancelled by the caller.
const StatusClientClosedRequest = 499

func statusForKind(kind code_translator.ErrorKind) int {
	switch kind {
	case code_translator.KindValidation:
		return http.StatusBadRequest
	case code_translator.KindRateLimited:
		return http.StatusTooManyRequests
	case code_translator.KindSafetyBlocked:
		return http.StatusUnprocessableEntity
	case code_translator.KindCancelled:
		return StatusClientClosedRequest
	case code_translator.KindTimeout:
		return http.StatusGatewayTimeout
	case code_translator.KindQuotaExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// errorBody exposes only the user-facing part of err.
func errorBody(err error) types.ErrorBody {
	return types.ErrorBody{
		Kind:    string(code_translator.KindOf(err)),
		Message: err.Error(),
	}
}

func (s *GinServer) writeTranslationError(c *gin.Context, err error) {
	body := errorBody(err)
	status := statusForKind(code_translator.ErrorKind(body.Kind))
	if status >= http.StatusInternalServerError {
		s.logger.Error("translation request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("kind", body.Kind),
			zap.Error(err),
		)
	}
	c.JSON(status, types.ErrorResponse{Error: body})
}

func writeError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, types.ErrorResponse{Error: types.ErrorBody{Kind: kind, Message: message}})
}
