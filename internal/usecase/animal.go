package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/repository"
)

type AnimalUsecase struct {
	uow    repository.UnitOfWorkManager
	logger *slog.Logger
}

func NewAnimalUsecase(uow repository.UnitOfWorkManager, logger *slog.Logger) *AnimalUsecase {
	return &AnimalUsecase{
		uow:    uow,
		logger: logger.With("component", "animal_usecase"),
	}
}

type UpdateAnimalInput struct {
	ID      int64
	Species *string
	Age     *int
}

func (u *AnimalUsecase) CreateAnimal(ctx context.Context, species string, age int) (*domain.Animal, error) {
	if err := domain.ValidateSpecies(species); err != nil {
		return nil, err
	}
	if err := domain.ValidateAge(age); err != nil {
		return nil, err
	}

	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}
	defer uow.Release(ctx)

	animal, err := uow.Animals().Create(ctx, species, age)
	if err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}

	u.logger.InfoContext(ctx, "animal created", "animal_id", animal.ID, "species", animal.Species)
	return animal, nil
}

func (u *AnimalUsecase) UpdateAnimal(ctx context.Context, input UpdateAnimalInput) (*domain.Animal, error) {
	if input.Species != nil {
		if err := domain.ValidateSpecies(*input.Species); err != nil {
			return nil, err
		}
	}
	if input.Age != nil {
		if err := domain.ValidateAge(*input.Age); err != nil {
			return nil, err
		}
	}

	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("update animal: %w", err)
	}
	defer uow.Release(ctx)

	animal, err := uow.Animals().Update(ctx, input.ID, input.Species, input.Age)
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("update animal: %w", err)
	}
	return animal, nil
}

func (u *AnimalUsecase) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("get animal: %w", err)
	}
	defer uow.Release(ctx)

	animal, err := uow.Animals().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("get animal: %w", err)
	}
	return animal, nil
}

func (u *AnimalUsecase) List(ctx context.Context) ([]*domain.Animal, error) {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer uow.Release(ctx)

	animals, err := uow.Animals().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	return animals, nil
}

func (u *AnimalUsecase) ListBySpecies(ctx context.Context, species string) ([]*domain.Animal, error) {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("list animals by species: %w", err)
	}
	defer uow.Release(ctx)

	animals, err := uow.Animals().ListBySpecies(ctx, species)
	if err != nil {
		return nil, fmt.Errorf("list animals by species: %w", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("list animals by species: %w", err)
	}
	return animals, nil
}

func (u *AnimalUsecase) Delete(ctx context.Context, id int64) error {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	defer uow.Release(ctx)

	if err = uow.Animals().Delete(ctx, id); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}

	u.logger.InfoContext(ctx, "animal deleted", "animal_id", id)
	return nil
}
