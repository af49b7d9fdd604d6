package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"totocalcio/internal/apperr"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:  http.StatusBadRequest,
	apperr.KindState:       http.StatusConflict,
	apperr.KindParticipant: http.StatusUnprocessableEntity,
	apperr.KindMatch:       http.StatusUnprocessableEntity,
	apperr.KindPrediction:  http.StatusUnprocessableEntity,
	apperr.KindResult:      http.StatusUnprocessableEntity,
	apperr.KindPrize:       http.StatusUnprocessableEntity,
	apperr.KindNotFound:    http.StatusNotFound,
	apperr.KindDatabase:    http.StatusInternalServerError,
	apperr.KindExport:      http.StatusBadGateway,
}

// statusFor maps a command error to an HTTP status.
func statusFor(err error) int {
	if status, ok := statusByKind[apperr.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  apperr.KindOf(err),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"kind":  apperr.KindValidation,
	})
}
