package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

const (
	errMsgUnauthorized = "Unauthorized"
	errMsgInternal     = "Something went wrong"
)

// respondOK writes the uniform success envelope with extra payload fields.
func respondOK(c *gin.Context, extra gin.H) {
	resp := gin.H{"success": true}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// respondError writes the uniform failure envelope. Every failure carries a
// non-2xx status; no 200-with-success:false paths exist.
func respondError(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, gin.H{"success": false, "error": msg})
}

// respondServiceError maps domain errors to HTTP statuses and hides
// store/internal faults behind a generic 500.
func (h *Handler) respondServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmptyPost):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserExists):
		respondError(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User does not exist")
	case errors.Is(err, service.ErrInvalidPassword):
		respondError(c, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "You are not the author of this post")
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		respondError(c, http.StatusInternalServerError, errMsgInternal)
	}
}
