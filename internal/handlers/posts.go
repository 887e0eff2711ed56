package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

// Request DTO for creating/updating a post.
type postRequest struct {
	Title string   `json:"title" binding:"required"`
	Data  string   `json:"data" binding:"required"`
	Tags  []string `json:"tags,omitempty"`
}

// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "success, posts"
// @Failure      500  {object}  map[string]interface{}
// @Router       /posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "posts_list_failed")
		return
	}
	respondOK(c, gin.H{"posts": posts})
}

// @Summary      Get one post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  map[string]interface{}  "success, post"
// @Failure      404  {object}  map[string]interface{}
// @Router       /post/{id} [get]
func (h *Handler) getPost(c *gin.Context) {
	id := c.Param("id")

	post, err := h.services.Posts.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, "post_get_failed", "id", id)
		return
	}
	respondOK(c, gin.H{"post": post})
}

// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      postRequest  true  "Post payload"
// @Success      200   {object}  map[string]interface{}  "success, message"
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]interface{}
// @Router       /post [post]
// @Security     BearerAuth
func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	userID := c.GetInt(ctxUserID)

	post, err := h.services.Posts.Create(c.Request.Context(), userID, service.PostInput{
		Title: req.Title,
		Data:  req.Data,
		Tags:  req.Tags,
	})
	if err != nil {
		h.respondServiceError(c, err, "post_create_failed", "userId", userID)
		return
	}

	respondOK(c, gin.H{"message": fmt.Sprintf("Post with id : %s created successfully", post.ID)})
}

// @Summary      Update post
// @Description  Only the post's author may update it.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Post id"
// @Param        body  body      postRequest  true  "Post payload"
// @Success      200   {object}  map[string]interface{}  "success, message"
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /post/{id} [put]
// @Security     BearerAuth
func (h *Handler) updatePost(c *gin.Context) {
	var req postRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	id := c.Param("id")
	userID := c.GetInt(ctxUserID)

	err := h.services.Posts.Update(c.Request.Context(), userID, id, service.PostInput{
		Title: req.Title,
		Data:  req.Data,
		Tags:  req.Tags,
	})
	if err != nil {
		h.respondServiceError(c, err, "post_update_failed", "id", id, "userId", userID)
		return
	}

	respondOK(c, gin.H{"message": fmt.Sprintf("Post with id : %s updated successfully", id)})
}

// @Summary      Delete post
// @Description  Only the post's author may delete it.
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  map[string]interface{}  "success, message"
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /post/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deletePost(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetInt(ctxUserID)

	if err := h.services.Posts.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondServiceError(c, err, "post_delete_failed", "id", id, "userId", userID)
		return
	}

	respondOK(c, gin.H{"message": fmt.Sprintf("Post with id : %s deleted successfully", id)})
}

// @Summary      Public profile
// @Tags         posts
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  map[string]interface{}  "success, user"
// @Failure      404       {object}  map[string]interface{}
// @Router       /profile/{username} [get]
func (h *Handler) getProfile(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.services.Posts.Profile(c.Request.Context(), username)
	if err != nil {
		h.respondServiceError(c, err, "profile_failed", "username", username)
		return
	}
	respondOK(c, gin.H{"user": profile})
}
