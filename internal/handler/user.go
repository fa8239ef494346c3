package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zapshift/internal/auth"
	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// UserHandler handles HTTP requests for accounts and token issuance.
type UserHandler struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{userRepo: userRepo, tokens: tokens}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

// Register handles POST /v1/users/register. Registering an email that
// already exists is a no-op returning the existing account, not an
// error.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email is required"})
		return
	}

	existing, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		respondJSON(c, http.StatusOK, toUserResponse(existing))
		return
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      domain.RoleUser,
		CreatedAt: time.Now(),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// TokenRequest is the HTTP request body for issuing an access token.
type TokenRequest struct {
	Email string `json:"email"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /v1/auth/token. The identity provider sits
// in front of this API in production; this endpoint issues tokens for
// registered accounts directly.
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if _, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown account"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TokenResponse{Token: token})
}

// GetAll handles GET /v1/users (admin only, enforced at the router).
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, toUserResponse(user))
	}

	respondJSON(c, http.StatusOK, response)
}
