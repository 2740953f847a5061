package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/usecase"
)

func newAnimalUsecase(uow *fakeUnitOfWork) *usecase.AnimalUsecase {
	return usecase.NewAnimalUsecase(&fakeUOWManager{uow: uow}, discardLogger())
}

func TestCreateAnimal_ValidInput_Commits(t *testing.T) {
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			create: func(_ context.Context, species string, age int) (*domain.Animal, error) {
				return &domain.Animal{ID: 1, Species: species, Age: age}, nil
			},
		},
	}

	animal, err := newAnimalUsecase(uow).CreateAnimal(context.Background(), "cat", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if animal.Species != "cat" || animal.Age != 3 {
		t.Errorf("got %q/%d, want cat/3", animal.Species, animal.Age)
	}
	if !uow.committed {
		t.Error("creation was not committed")
	}
	if !uow.released {
		t.Error("unit of work was not released")
	}
}

func TestCreateAnimal_InvalidInput_NeverOpensTransaction(t *testing.T) {
	cases := []struct {
		name    string
		species string
		age     int
		wantErr error
	}{
		{"species too short", "x", 3, domain.ErrSpeciesLength},
		{"species too long", "a-species-name-over-limit", 3, domain.ErrSpeciesLength},
		{"negative age", "cat", -1, domain.ErrAgeOutOfRange},
		{"age above limit", "cat", 51, domain.ErrAgeOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uow := &fakeUnitOfWork{}
			_, err := newAnimalUsecase(uow).CreateAnimal(context.Background(), tc.species, tc.age)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("want %v, got %v", tc.wantErr, err)
			}
			if uow.released {
				t.Error("validation failure still opened a transaction")
			}
		})
	}
}

func TestCreateAnimal_ZeroAge_Accepted(t *testing.T) {
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			create: func(_ context.Context, species string, age int) (*domain.Animal, error) {
				return &domain.Animal{ID: 1, Species: species, Age: age}, nil
			},
		},
	}

	if _, err := newAnimalUsecase(uow).CreateAnimal(context.Background(), "kitten", 0); err != nil {
		t.Errorf("age 0 rejected: %v", err)
	}
}

func TestUpdateAnimal_PartialFields_PassedThrough(t *testing.T) {
	var gotSpecies *string
	var gotAge *int
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			update: func(_ context.Context, id int64, species *string, age *int) (*domain.Animal, error) {
				gotSpecies, gotAge = species, age
				return &domain.Animal{ID: id, Species: "dog", Age: 4}, nil
			},
		},
	}

	age := 4
	_, err := newAnimalUsecase(uow).UpdateAnimal(context.Background(), usecase.UpdateAnimalInput{ID: 1, Age: &age})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSpecies != nil {
		t.Error("species was sent although not set")
	}
	if gotAge == nil || *gotAge != 4 {
		t.Errorf("got age %v, want 4", gotAge)
	}
	if !uow.committed {
		t.Error("update was not committed")
	}
}

func TestUpdateAnimal_InvalidSpecies_Rejected(t *testing.T) {
	species := "x"
	_, err := newAnimalUsecase(&fakeUnitOfWork{}).UpdateAnimal(context.Background(), usecase.UpdateAnimalInput{ID: 1, Species: &species})
	if !errors.Is(err, domain.ErrSpeciesLength) {
		t.Errorf("want ErrSpeciesLength, got %v", err)
	}
}

func TestUpdateAnimal_MissingAnimal_NotFound(t *testing.T) {
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			update: func(_ context.Context, _ int64, _ *string, _ *int) (*domain.Animal, error) {
				return nil, domain.ErrAnimalNotFound
			},
		},
	}

	_, err := newAnimalUsecase(uow).UpdateAnimal(context.Background(), usecase.UpdateAnimalInput{ID: 404})
	if !errors.Is(err, domain.ErrAnimalNotFound) {
		t.Errorf("want ErrAnimalNotFound, got %v", err)
	}
	if uow.committed {
		t.Error("failed update committed the transaction")
	}
}

func TestListBySpecies_FiltersThroughRepository(t *testing.T) {
	var gotSpecies string
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			listBySpecies: func(_ context.Context, species string) ([]*domain.Animal, error) {
				gotSpecies = species
				return []*domain.Animal{{ID: 1, Species: species, Age: 2}}, nil
			},
		},
	}

	animals, err := newAnimalUsecase(uow).ListBySpecies(context.Background(), "cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSpecies != "cat" {
		t.Errorf("repository queried with %q, want cat", gotSpecies)
	}
	if len(animals) != 1 {
		t.Errorf("got %d animals, want 1", len(animals))
	}
}

func TestDeleteAnimal_Missing_NotFound(t *testing.T) {
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			delete: func(_ context.Context, _ int64) error {
				return domain.ErrAnimalNotFound
			},
		},
	}

	err := newAnimalUsecase(uow).Delete(context.Background(), 404)
	if !errors.Is(err, domain.ErrAnimalNotFound) {
		t.Errorf("want ErrAnimalNotFound, got %v", err)
	}
	if uow.committed {
		t.Error("failed delete committed the transaction")
	}
}

func TestDeleteAnimal_Succeeds_Commits(t *testing.T) {
	uow := &fakeUnitOfWork{
		animals: &fakeAnimalRepo{
			delete: func(_ context.Context, _ int64) error { return nil },
		},
	}

	if err := newAnimalUsecase(uow).Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uow.committed {
		t.Error("delete was not committed")
	}
}
