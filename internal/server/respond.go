package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen-go/internal/fetch"
	"coursegen-go/internal/genai"
	"coursegen-go/internal/media"
	"coursegen-go/internal/stages"
	"coursegen-go/internal/transcribe"
	"coursegen-go/internal/types"
)

// errorBody is the JSON error envelope. A response either carries a stage
// artifact or this; never a 200 with null fields.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// fail maps a typed pipeline error onto an HTTP status and the error
// envelope. Client mistakes come back 400/422, dependency failures 502, and
// only a genuinely unclassified error becomes a 500.
func (s *Server) fail(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	} else {
		s.log.WithError(err).Warn("request rejected")
	}
	c.AbortWithStatusJSON(status, errorBody{Error: detail})
}

func classifyError(err error) (int, errorDetail) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorDetail{Message: verr.Error(), Code: "invalid_input"}
	}

	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		if ferr.Permanent {
			return http.StatusBadRequest, errorDetail{Message: ferr.Error(), Code: "bad_media_source"}
		}
		return http.StatusBadGateway, errorDetail{Message: ferr.Error(), Code: "media_fetch_failed"}
	}

	var merr *media.Error
	if errors.As(err, &merr) {
		return http.StatusUnprocessableEntity, errorDetail{Message: merr.Error(), Code: "media_processing_failed"}
	}

	var terr *transcribe.Error
	if errors.As(err, &terr) {
		return http.StatusBadGateway, errorDetail{Message: terr.Error(), Code: "transcription_failed"}
	}

	var perr *stages.PipelineError
	if errors.As(err, &perr) {
		detail := errorDetail{Message: perr.Error(), Code: "generation_failed", Stage: perr.Stage}
		var gerr *genai.Error
		if errors.As(err, &gerr) {
			detail.Cause = string(gerr.Cause)
		}
		return http.StatusBadGateway, detail
	}

	return http.StatusInternalServerError, errorDetail{Message: "internal error", Code: "internal"}
}
