package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Clark-Hu/course-tracker/internal/domain"
	"github.com/Clark-Hu/course-tracker/internal/repository"
	"github.com/Clark-Hu/course-tracker/internal/session"
)

// Identity registers and authenticates users and manages the session slot.
type Identity struct {
	service
	sessions session.Store
	key      string
}

// Register creates a user and makes it the current session identity.
func (i *Identity) Register(ctx context.Context, name, email, secret string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || secret == "" {
		return domain.User{}, fmt.Errorf("name, email and password are required: %w", domain.ErrInvalidInput)
	}
	if err := i.delay(ctx, OpRegister); err != nil {
		return domain.User{}, err
	}

	user, err := i.repo.Users.Create(repository.UserCreateParams{Name: name, Email: email, Secret: secret})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateHandle) {
			i.failure(ctx, "User with this email already exists")
		}
		return domain.User{}, err
	}

	if err := i.establish(ctx, user); err != nil {
		return domain.User{}, err
	}
	i.success(ctx, "Registration successful!")
	return user, nil
}

// Authenticate matches email and secret exactly against the registered
// users and makes the match the current session identity.
func (i *Identity) Authenticate(ctx context.Context, email, secret string) (domain.User, error) {
	if err := i.delay(ctx, OpAuthenticate); err != nil {
		return domain.User{}, err
	}

	user, err := i.repo.Users.FindByCredentials(email, secret)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			i.failure(ctx, "Invalid email or password")
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := i.establish(ctx, user); err != nil {
		return domain.User{}, err
	}
	i.success(ctx, "Login successful!")
	return user, nil
}

// CurrentIdentity reads the session slot.
func (i *Identity) CurrentIdentity(ctx context.Context) (domain.User, bool, error) {
	user, ok, err := i.sessions.Get(ctx, session.KeyFrom(ctx, i.key))
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read session: %w", err)
	}
	return user, ok, nil
}

// EndSession clears the session slot. Clearing an empty slot is not an error.
func (i *Identity) EndSession(ctx context.Context) error {
	if err := i.sessions.Delete(ctx, session.KeyFrom(ctx, i.key)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	i.success(ctx, "Logged out successfully")
	return nil
}

func (i *Identity) establish(ctx context.Context, user domain.User) error {
	if err := i.sessions.Put(ctx, session.KeyFrom(ctx, i.key), user); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
