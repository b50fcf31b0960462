package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"chat-relay/internal/middleware"
	"chat-relay/internal/repositories"
	"chat-relay/internal/telemetry"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	users repositories.UserRepository
	audit *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{users: users, audit: audit}
}

// SignUp registers a new account. The user still has to log in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	if err := h.users.CreateUser(c.Request.Context(), req.Email, req.Username, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", fmt.Sprintf("user signed up email=%s", req.Email), requestIDFromContext(c), nil)
	c.JSON(http.StatusOK, gin.H{"message": "User created. Please login."})
}

// Login verifies credentials and issues a fresh bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	token, err := h.users.IssueToken(c.Request.Context(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", fmt.Sprintf("user logged in email=%s", user.Email), requestIDFromContext(c), &user.Email)
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	}})
}

// Logout clears the caller's token. Always replies 200; an unknown
// token has nothing to clear.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.TokenFromHeader(c)
	if token != "" {
		if err := h.users.ClearToken(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}
	h.audit.Emit(c.Request.Context(), "INFO", "user logged out", requestIDFromContext(c), nil)
	c.Status(http.StatusOK)
}
