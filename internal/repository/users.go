package repository

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/course-tracker/internal/domain"
)

// UsersRepository stores registered identities keyed by email.
type UsersRepository struct {
	mu      sync.RWMutex
	cost    int
	byEmail map[string]userRecord
	byID    map[string]string
}

type userRecord struct {
	user       domain.User
	secretHash []byte
}

// UserCreateParams bundles the fields required to register a user. ID is
// generated when empty.
type UserCreateParams struct {
	ID     string
	Name   string
	Email  string
	Secret string
}

// NewUsersRepository returns an empty identity store hashing secrets with
// the given bcrypt cost.
func NewUsersRepository(cost int) *UsersRepository {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UsersRepository{
		cost:    cost,
		byEmail: make(map[string]userRecord),
		byID:    make(map[string]string),
	}
}

// Create stores a new user. It returns domain.ErrDuplicateHandle when the
// email is taken, leaving the existing record untouched.
func (r *UsersRepository) Create(params UserCreateParams) (domain.User, error) {
	if _, err := r.GetByEmail(params.Email); err == nil {
		return domain.User{}, domain.ErrDuplicateHandle
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(params.Secret), r.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash secret: %w", err)
	}

	id := strings.TrimSpace(params.ID)
	if id == "" {
		id = "user-" + uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-checked under the write lock; the lookup above only skips hashing.
	if _, exists := r.byEmail[params.Email]; exists {
		return domain.User{}, domain.ErrDuplicateHandle
	}
	if _, exists := r.byID[id]; exists {
		return domain.User{}, fmt.Errorf("user id %q already in use", id)
	}

	user := domain.User{ID: id, Name: params.Name, Email: params.Email}
	r.byEmail[params.Email] = userRecord{user: user, secretHash: hash}
	r.byID[id] = params.Email
	return user, nil
}

// GetByEmail fetches a user by its unique handle.
func (r *UsersRepository) GetByEmail(email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return rec.user, nil
}

// FindByCredentials returns the user whose email and secret both match.
// Any mismatch is reported as ErrNotFound so callers cannot tell which
// field was wrong.
func (r *UsersRepository) FindByCredentials(email, secret string) (domain.User, error) {
	r.mu.RLock()
	rec, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(rec.secretHash, prehash(secret)); err != nil {
		return domain.User{}, ErrNotFound
	}
	return rec.user, nil
}

// Count returns the number of registered users.
func (r *UsersRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

// prehash folds a secret of any length into a fixed 44-byte input, since
// bcrypt ignores everything past 72 bytes.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
