package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/auth"
	"healthontrack/internal/models"
	"healthontrack/internal/store"
	"healthontrack/pkg/response"
)

// defaultTrainID is assigned to new accounts. A real deployment would pick
// the train from the booking; this mirrors the seed data.
const defaultTrainID = "TR-001"

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers an account and returns it without the password hash.
func (h *Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		response.Message(c, http.StatusBadRequest, "Name, email, password, and role are required")
		return
	}
	if !models.ValidRole(req.Role) {
		response.Message(c, http.StatusBadRequest, "Invalid role")
		return
	}

	user := &models.User{
		ID:           auth.GenerateID("user_"),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: auth.HashPassword(req.Password),
		Role:         models.Role(req.Role),
		TrainID:      defaultTrainID,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			response.Message(c, http.StatusConflict, "User with this email already exists")
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		response.Internal(c)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login verifies credentials and the expected role, touches the account's
// updated_at, and returns the user. Unknown email and bad password produce
// the same message on purpose.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		response.Message(c, http.StatusBadRequest, "Email, password, and role are required")
		return
	}

	user, err := h.store.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Message(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error("login lookup failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		response.Message(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if string(user.Role) != req.Role {
		response.Message(c, http.StatusUnauthorized, "Invalid role for this user")
		return
	}

	if err := h.store.TouchUser(c.Request.Context(), user.ID); err != nil {
		// The login itself succeeded; a failed timestamp touch is not worth a 500.
		h.log.Warn("touch last login failed", zap.String("user", user.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, user)
}
