package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkurmanbek/pet-adoption-api/internal/auth"
	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/metrics"
	"github.com/dkurmanbek/pet-adoption-api/internal/repository"
)

// TokenIssuer is the slice of auth.TokenManager the usecase needs.
// Defined here so tests can inject a fake.
type TokenIssuer interface {
	IssuePair(userID int64, username string) (*domain.TokenPair, error)
	Verify(tokenString string, expected auth.TokenType) (*auth.Claims, error)
}

type UserUsecase struct {
	uow    repository.UnitOfWorkManager
	tokens TokenIssuer
	hasher auth.PasswordHasher
	logger *slog.Logger
}

func NewUserUsecase(uow repository.UnitOfWorkManager, tokens TokenIssuer, hasher auth.PasswordHasher, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{
		uow:    uow,
		tokens: tokens,
		hasher: hasher,
		logger: logger.With("component", "user_usecase"),
	}
}

// Register creates a user and signs them in. Only a taken username is
// reported distinctly; every other failure surfaces as a wrapped internal
// error so callers cannot tell which step broke.
func (u *UserUsecase) Register(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if password == "" {
		return nil, nil, domain.ErrEmptyPassword
	}

	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}
	defer uow.Release(ctx)

	if _, err = uow.Users().GetByUsername(ctx, username); err == nil {
		return nil, nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	user, err := uow.Users().Create(ctx, username, hash)
	if err != nil {
		// The unique index can still fire under a concurrent registration.
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, nil, domain.ErrUsernameTaken
		}
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	u.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// Authenticate verifies credentials and issues a fresh token pair. An absent
// user and a wrong password both come back as ErrInvalidCredentials, so the
// response cannot be used to enumerate usernames.
func (u *UserUsecase) Authenticate(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate user: %w", err)
	}
	defer uow.Release(ctx)

	user, err := uow.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	if err = u.hasher.Compare(user.HashedPassword, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	// Read-only unit; committed for consistency of the lookup.
	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("authenticate user: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (u *UserUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := u.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}
	defer uow.Release(ctx)

	user, err := uow.Users().GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}
	return pair, nil
}

// CurrentUser resolves the subject of an access token. A token whose subject
// no longer exists is as unauthorized as a bad token.
func (u *UserUsecase) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := u.tokens.Verify(accessToken, auth.TokenAccess)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	defer uow.Release(ctx)

	user, err := uow.Users().GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("current user: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// AdoptAnimal assigns the animal to the user and returns the owner with
// their full animal set.
func (u *UserUsecase) AdoptAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error) {
	owner, animals, err := u.mutateOwnership(ctx, userID, animalID, repository.UserRepository.AdoptAnimal)
	if err != nil {
		metrics.AdoptionsTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.AdoptionsTotal.WithLabelValues("success").Inc()
	u.logger.InfoContext(ctx, "animal adopted", "user_id", userID, "animal_id", animalID)
	return owner, animals, nil
}

// ReleaseAnimal removes the animal from the user's set.
func (u *UserUsecase) ReleaseAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error) {
	owner, animals, err := u.mutateOwnership(ctx, userID, animalID, repository.UserRepository.ReleaseAnimal)
	if err != nil {
		metrics.ReleasesTotal.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.ReleasesTotal.WithLabelValues("success").Inc()
	u.logger.InfoContext(ctx, "animal released", "user_id", userID, "animal_id", animalID)
	return owner, animals, nil
}

func (u *UserUsecase) mutateOwnership(
	ctx context.Context,
	userID, animalID int64,
	op func(repository.UserRepository, context.Context, int64, int64) error,
) (*domain.User, []*domain.Animal, error) {
	uow, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("change ownership: %w", err)
	}
	defer uow.Release(ctx)

	if err = op(uow.Users(), ctx, userID, animalID); err != nil {
		return nil, nil, err
	}

	owner, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("change ownership: %w", err)
	}
	animals, err := uow.Users().ListAnimals(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("change ownership: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("change ownership: %w", err)
	}
	return owner, animals, nil
}
