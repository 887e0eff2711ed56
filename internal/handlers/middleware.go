package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxUserID is the gin context key carrying the authenticated identity.
const ctxUserID = "userId"

// authRequired gates identity-scoped routes. It accepts both
// "Authorization: Bearer <token>" and a bare "<token>" with no scheme, since
// both variants exist in the wild for this API. Every rejection is a uniform
// 401 so callers can't probe which part of the check failed.
func (h *Handler) authRequired(c *gin.Context) {
	token := extractToken(c.GetHeader("Authorization"))
	if token == "" {
		h.rejectUnauthorized(c)
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("token_rejected", "err", err)
		}
		h.rejectUnauthorized(c)
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

func (h *Handler) rejectUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   errMsgUnauthorized,
	})
}

// extractToken returns the bearer token from an Authorization header value,
// or "" when the header is absent, empty, or uses a different scheme.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 {
		if !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if strings.EqualFold(header, "Bearer") {
		// Scheme with no token segment.
		return ""
	}
	// Raw token without a scheme prefix.
	return header
}
