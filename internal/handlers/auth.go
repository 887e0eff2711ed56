package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondServiceError(c, err, "sign_up_failed", "username", input.Username)
		return
	}

	respondOK(c, gin.H{"message": fmt.Sprintf("User with id : %d created successfully", id)})
}

func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondServiceError(c, err, "sign_in_failed", "username", input.Username)
		return
	}

	respondOK(c, gin.H{"token": token})
}

// me returns the authenticated user's profile with their posts.
func (h *Handler) me(c *gin.Context) {
	userID := c.GetInt(ctxUserID)

	profile, err := h.services.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err, "me_failed", "userId", userID)
		return
	}

	respondOK(c, gin.H{"user": profile})
}
