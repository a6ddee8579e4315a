package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/stubstore"
	"github.com/DawnFalls/getSuitedV1/internal/tokens"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
)

// LoginRequest is the dev sign-in payload. There is no password: the stub
// exists to exercise the client, not to gatekeep.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// AuthHandler issues dev bearer tokens and upserts the signing-in user.
type AuthHandler struct {
	cfg  AuthConfig
	repo stubstore.Repository
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(cfg AuthConfig, repo stubstore.Repository) *AuthHandler {
	return &AuthHandler{cfg: cfg, repo: repo}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
}

// Login upserts the user by email and returns a token plus the user record,
// the same shape the production backend returns at sign-in.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.repo.Upsert(c.Request.Context(), &models.User{Email: req.Email, Name: req.Name})
	if err != nil {
		logger.Errorf("login: user upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user upsert failed"})
		return
	}
	token, err := tokens.Generate(h.cfg.JWTSecret, u, h.cfg.TokenTTL)
	if err != nil {
		logger.Errorf("login: token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}
