package repository

import (
	"context"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
)

type AnimalRepository interface {
	Create(ctx context.Context, species string, age int) (*domain.Animal, error)
	// Update applies the non-nil fields. Returns domain.ErrAnimalNotFound if
	// the ID is absent.
	Update(ctx context.Context, id int64, species *string, age *int) (*domain.Animal, error)
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	// List returns every animal. Full scan, acceptable at this scale.
	List(ctx context.Context) ([]*domain.Animal, error)
	ListBySpecies(ctx context.Context, species string) ([]*domain.Animal, error)
	// Delete returns domain.ErrAnimalNotFound when no row was affected.
	Delete(ctx context.Context, id int64) error
}
