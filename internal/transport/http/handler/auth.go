package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// userUsecaser is the subset of UserUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type userUsecaser interface {
	Register(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error)
	Authenticate(ctx context.Context, username, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
	AdoptAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error)
	ReleaseAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error)
}

type AuthHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewAuthHandler(users userUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger.With("component", "auth_handler"),
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type ownershipResponse struct {
	Master  userResponse     `json:"master"`
	Animals []animalResponse `json:"animals"`
}

func newTokenResponse(pair *domain.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, pair, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": errUsernameTaken})
		case errors.Is(err, domain.ErrUsernameLength), errors.Is(err, domain.ErrEmptyPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "register user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, newTokenResponse(pair))
}

// POST /auth/login
// An unknown username and a wrong password return the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair))
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "refresh tokens", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair))
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.CurrentUser(c.Request.Context(), c.GetString(middleware.CtxAccessToken))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// POST /auth/adopt_animal/:user_id/:animal_id
func (h *AuthHandler) AdoptAnimal(c *gin.Context) {
	h.changeOwnership(c, h.users.AdoptAnimal)
}

// POST /auth/release_animal/:user_id/:animal_id
func (h *AuthHandler) ReleaseAnimal(c *gin.Context) {
	h.changeOwnership(c, h.users.ReleaseAnimal)
}

func (h *AuthHandler) changeOwnership(
	c *gin.Context,
	op func(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error),
) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	animalID, err := strconv.ParseInt(c.Param("animal_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "animal_id must be an integer"})
		return
	}

	owner, animals, err := op(c.Request.Context(), userID, animalID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrAnimalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errAnimalNotFound})
		case errors.Is(err, domain.ErrAlreadyAdopted):
			c.JSON(http.StatusConflict, gin.H{"error": errAlreadyAdopted})
		case errors.Is(err, domain.ErrNotOwned):
			c.JSON(http.StatusConflict, gin.H{"error": errNotOwned})
		default:
			h.logger.ErrorContext(c.Request.Context(), "change ownership", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	resp := ownershipResponse{
		Master:  userResponse{ID: owner.ID, Username: owner.Username},
		Animals: make([]animalResponse, 0, len(animals)),
	}
	for _, a := range animals {
		resp.Animals = append(resp.Animals, newAnimalResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}
