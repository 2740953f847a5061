package repository

import (
	"context"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
)

type UserRepository interface {
	// Create persists a new user and returns it with the storage-assigned ID.
	// Returns domain.ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, username, hashedPassword string) (*domain.User, error)
	// Update rewrites the username of an existing user. The password hash is
	// immutable after registration. Returns domain.ErrUserNotFound if the ID
	// is absent.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes a user. Returns domain.ErrUserNotFound when no row was
	// affected; it never silently succeeds.
	Delete(ctx context.Context, id int64) error

	// ListAnimals returns the animals currently owned by the user.
	ListAnimals(ctx context.Context, userID int64) ([]*domain.Animal, error)
	// AdoptAnimal atomically assigns the animal to the user. Returns
	// domain.ErrUserNotFound / domain.ErrAnimalNotFound when either side is
	// absent and domain.ErrAlreadyAdopted when the user already owns it.
	AdoptAnimal(ctx context.Context, userID, animalID int64) error
	// ReleaseAnimal clears the ownership set by AdoptAnimal. Returns
	// domain.ErrNotOwned when the animal is not currently the user's.
	ReleaseAnimal(ctx context.Context, userID, animalID int64) error
}
