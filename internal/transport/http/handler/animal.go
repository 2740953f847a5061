package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type animalUsecaser interface {
	CreateAnimal(ctx context.Context, species string, age int) (*domain.Animal, error)
	UpdateAnimal(ctx context.Context, input usecase.UpdateAnimalInput) (*domain.Animal, error)
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	List(ctx context.Context) ([]*domain.Animal, error)
	ListBySpecies(ctx context.Context, species string) ([]*domain.Animal, error)
	Delete(ctx context.Context, id int64) error
}

type AnimalHandler struct {
	animals animalUsecaser
	logger  *slog.Logger
}

func NewAnimalHandler(animals animalUsecaser, logger *slog.Logger) *AnimalHandler {
	return &AnimalHandler{
		animals: animals,
		logger:  logger.With("component", "animal_handler"),
	}
}

type createAnimalRequest struct {
	Species string `json:"species" binding:"required,min=2,max=15"`
	// Pointer so age 0 still passes "required".
	Age *int `json:"age" binding:"required,min=0,max=50"`
}

type updateAnimalRequest struct {
	Species *string `json:"species" binding:"omitempty,min=2,max=15"`
	Age     *int    `json:"age"     binding:"omitempty,min=0,max=50"`
}

type animalResponse struct {
	ID        int64     `json:"id"`
	Species   string    `json:"species"`
	Age       int       `json:"age"`
	MasterID  *int64    `json:"master_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newAnimalResponse(a *domain.Animal) animalResponse {
	return animalResponse{
		ID:        a.ID,
		Species:   a.Species,
		Age:       a.Age,
		MasterID:  a.MasterID,
		CreatedAt: a.CreatedAt,
	}
}

// POST /animals
func (h *AnimalHandler) Create(c *gin.Context) {
	var req createAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	animal, err := h.animals.CreateAnimal(c.Request.Context(), req.Species, *req.Age)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSpeciesLength), errors.Is(err, domain.ErrAgeOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create animal", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, newAnimalResponse(animal))
}

// PATCH /animals/:id
func (h *AnimalHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var req updateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	animal, err := h.animals.UpdateAnimal(c.Request.Context(), usecase.UpdateAnimalInput{
		ID:      id,
		Species: req.Species,
		Age:     req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAnimalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errAnimalNotFound})
		case errors.Is(err, domain.ErrSpeciesLength), errors.Is(err, domain.ErrAgeOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update animal", "animal_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, newAnimalResponse(animal))
}

// GET /animals/:id
func (h *AnimalHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	animal, err := h.animals.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAnimalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errAnimalNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get animal", "animal_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, newAnimalResponse(animal))
}

// GET /animals
// GET /animals?species=cat
func (h *AnimalHandler) List(c *gin.Context) {
	var (
		animals []*domain.Animal
		err     error
	)

	if species := c.Query("species"); species != "" {
		animals, err = h.animals.ListBySpecies(c.Request.Context(), species)
	} else {
		animals, err = h.animals.List(c.Request.Context())
	}
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list animals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]animalResponse, 0, len(animals))
	for _, a := range animals {
		resp = append(resp, newAnimalResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /animals/:id
func (h *AnimalHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.animals.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAnimalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errAnimalNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete animal", "animal_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
