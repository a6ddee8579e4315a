package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/storage"
	"github.com/DawnFalls/getSuitedV1/internal/stubstore"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
)

// UsersHandler implements the profile contracts the client consumes:
// evaluation listing, name update and picture upload.
type UsersHandler struct {
	repo    stubstore.Repository
	avatars storage.AvatarStore
}

func NewUsersHandler(repo stubstore.Repository, avatars storage.AvatarStore) *UsersHandler {
	return &UsersHandler{repo: repo, avatars: avatars}
}

// Register routes under /users. The group is expected to carry the bearer
// auth middleware.
func (h *UsersHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	u.GET("/evaluations", h.ListEvaluations)
	u.PATCH("/:id/name", h.UpdateName)
	u.PATCH("/:id/profilePicture", h.UpdatePicture)
}

// ListEvaluations returns the artifacts for ?email= in storage order.
func (h *UsersHandler) ListEvaluations(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter required"})
		return
	}
	evals, err := h.repo.Evaluations(c.Request.Context(), email)
	if err != nil {
		logger.Errorf("evaluations list failed for %q: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list evaluations"})
		return
	}
	if evals == nil {
		evals = []models.Evaluation{}
	}
	c.JSON(http.StatusOK, evals)
}

// UpdateName applies a display-name change and returns the updated record
// wrapped as {"user": ...}.
func (h *UsersHandler) UpdateName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.repo.SetName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		if err == stubstore.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("name update failed for %q: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update name"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdatePicture stores the uploaded multipart file (field "profilePicture")
// and returns the user with the new picture URL.
func (h *UsersHandler) UpdatePicture(c *gin.Context) {
	file, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profilePicture file field required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer src.Close()

	key := fmt.Sprintf("%s-%s%s", c.Param("id"), uuid.NewString(), filepath.Ext(file.Filename))
	url, err := h.avatars.Put(c.Request.Context(), key, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		logger.Errorf("avatar store failed for %q: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store picture"})
		return
	}

	u, err := h.repo.SetPicture(c.Request.Context(), c.Param("id"), url)
	if err != nil {
		if err == stubstore.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("picture update failed for %q: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update picture"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
