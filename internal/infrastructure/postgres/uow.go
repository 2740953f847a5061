package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkurmanbek/pet-adoption-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWorkManager opens transaction-scoped units of work over one pool.
// The transaction is exclusively owned by the returned unit until Release.
type UnitOfWorkManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUnitOfWorkManager(pool *pgxpool.Pool, logger *slog.Logger) *UnitOfWorkManager {
	return &UnitOfWorkManager{
		pool:   pool,
		logger: logger.With("component", "uow"),
	}
}

func (m *UnitOfWorkManager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &unitOfWork{
		tx:      tx,
		users:   NewUserRepository(tx),
		animals: NewAnimalRepository(tx),
		logger:  m.logger,
	}, nil
}

type unitOfWork struct {
	tx      pgx.Tx
	users   *UserRepository
	animals *AnimalRepository
	logger  *slog.Logger
}

func (u *unitOfWork) Users() repository.UserRepository     { return u.users }
func (u *unitOfWork) Animals() repository.AnimalRepository { return u.animals }

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Release rolls back unless Commit already finished the transaction, so a
// unit abandoned on an error path never leaves work half-applied.
func (u *unitOfWork) Release(ctx context.Context) {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		u.logger.ErrorContext(ctx, "release unit of work", "error", err)
	}
}
