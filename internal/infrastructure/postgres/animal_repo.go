package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

type AnimalRepository struct {
	q Querier
}

func NewAnimalRepository(q Querier) *AnimalRepository {
	return &AnimalRepository{q: q}
}

func (r *AnimalRepository) Create(ctx context.Context, species string, age int) (*domain.Animal, error) {
	query := `
		INSERT INTO animals (species, age)
		VALUES ($1, $2)
		RETURNING id, species, age, master_id, created_at, updated_at`

	a, err := scanAnimal(r.q.QueryRow(ctx, query, species, age))
	if err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}
	return a, nil
}

// Update applies only the provided fields; nil pointers keep current values.
func (r *AnimalRepository) Update(ctx context.Context, id int64, species *string, age *int) (*domain.Animal, error) {
	query := `
		UPDATE animals
		SET    species    = COALESCE($2, species),
		       age        = COALESCE($3, age),
		       updated_at = NOW()
		WHERE  id = $1
		RETURNING id, species, age, master_id, created_at, updated_at`

	a, err := scanAnimal(r.q.QueryRow(ctx, query, id, species, age))
	if err != nil {
		if errors.Is(err, domain.ErrAnimalNotFound) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("update animal: %w", err)
	}
	return a, nil
}

func (r *AnimalRepository) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	query := `SELECT id, species, age, master_id, created_at, updated_at FROM animals WHERE id = $1`
	return scanAnimal(r.q.QueryRow(ctx, query, id))
}

func (r *AnimalRepository) List(ctx context.Context) ([]*domain.Animal, error) {
	query := `SELECT id, species, age, master_id, created_at, updated_at FROM animals ORDER BY id`
	return r.queryAnimals(ctx, query)
}

func (r *AnimalRepository) ListBySpecies(ctx context.Context, species string) ([]*domain.Animal, error) {
	query := `SELECT id, species, age, master_id, created_at, updated_at FROM animals WHERE species = $1 ORDER BY id`
	return r.queryAnimals(ctx, query, species)
}

func (r *AnimalRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnimalNotFound
	}
	return nil
}

func (r *AnimalRepository) queryAnimals(ctx context.Context, query string, args ...any) ([]*domain.Animal, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query animals: %w", err)
	}
	defer rows.Close()

	var animals []*domain.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

func scanAnimal(row pgx.Row) (*domain.Animal, error) {
	var a domain.Animal
	err := row.Scan(&a.ID, &a.Species, &a.Age, &a.MasterID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("scan animal: %w", err)
	}
	return &a, nil
}
