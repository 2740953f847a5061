package domain

import (
	"errors"
	"time"
)

var (
	ErrSpeciesLength = errors.New("species must be between 2 and 15 characters")
	ErrAgeOutOfRange = errors.New("age must be between 0 and 50")
)

// Animal belongs to at most one user at a time. MasterID is nil while the
// animal is unadopted; deleting the owning user clears it (FK SET NULL).
type Animal struct {
	ID        int64
	Species   string
	Age       int
	MasterID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidateSpecies(species string) error {
	if len(species) < 2 || len(species) > 15 {
		return ErrSpeciesLength
	}
	return nil
}

func ValidateAge(age int) error {
	if age < 0 || age > 50 {
		return ErrAgeOutOfRange
	}
	return nil
}
