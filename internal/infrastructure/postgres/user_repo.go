package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type UserRepository struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

func (r *UserRepository) Create(ctx context.Context, username, hashedPassword string) (*domain.User, error) {
	query := `
		INSERT INTO users (username, hashed_password)
		VALUES ($1, $2)
		RETURNING id, username, hashed_password, created_at, updated_at`

	row := r.q.QueryRow(ctx, query, username, hashedPassword)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET    username = $2, updated_at = NOW()
		WHERE  id = $1
		RETURNING id, username, hashed_password, created_at, updated_at`

	row := r.q.QueryRow(ctx, query, user.ID, user.Username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, hashed_password, created_at, updated_at FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, hashed_password, created_at, updated_at FROM users WHERE username = $1`
	return scanUser(r.q.QueryRow(ctx, query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT id, username, hashed_password, created_at, updated_at FROM users ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListAnimals(ctx context.Context, userID int64) ([]*domain.Animal, error) {
	query := `
		SELECT id, species, age, master_id, created_at, updated_at
		FROM animals
		WHERE master_id = $1
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user animals: %w", err)
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

// AdoptAnimal must run inside a unit of work. The animal row is locked so the
// ownership check and the write are atomic under concurrent adopts.
func (r *UserRepository) AdoptAnimal(ctx context.Context, userID, animalID int64) error {
	if err := r.exists(ctx, userID); err != nil {
		return err
	}

	animal, err := r.lockAnimal(ctx, animalID)
	if err != nil {
		return err
	}

	if animal.MasterID != nil && *animal.MasterID == userID {
		return domain.ErrAlreadyAdopted
	}

	_, err = r.q.Exec(ctx,
		`UPDATE animals SET master_id = $1, updated_at = NOW() WHERE id = $2`,
		userID, animalID)
	if err != nil {
		return fmt.Errorf("adopt animal: %w", err)
	}
	return nil
}

// ReleaseAnimal is the inverse of AdoptAnimal, with the same locking rules.
func (r *UserRepository) ReleaseAnimal(ctx context.Context, userID, animalID int64) error {
	if err := r.exists(ctx, userID); err != nil {
		return err
	}

	animal, err := r.lockAnimal(ctx, animalID)
	if err != nil {
		return err
	}

	if animal.MasterID == nil || *animal.MasterID != userID {
		return domain.ErrNotOwned
	}

	_, err = r.q.Exec(ctx,
		`UPDATE animals SET master_id = NULL, updated_at = NOW() WHERE id = $1`,
		animalID)
	if err != nil {
		return fmt.Errorf("release animal: %w", err)
	}
	return nil
}

func (r *UserRepository) exists(ctx context.Context, userID int64) error {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("check user: %w", err)
	}
	return nil
}

func (r *UserRepository) lockAnimal(ctx context.Context, animalID int64) (*domain.Animal, error) {
	query := `
		SELECT id, species, age, master_id, created_at, updated_at
		FROM animals
		WHERE id = $1
		FOR UPDATE`

	a, err := scanAnimal(r.q.QueryRow(ctx, query, animalID))
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
