package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/course-tracker/internal/domain"
	"github.com/Clark-Hu/course-tracker/internal/store"
)

// PostgresStore keeps session slots in the session_slots table.
type PostgresStore struct {
	st *store.Store
}

// NewPostgresStore returns a slot store on top of st. The schema must
// already exist; store.Open creates it.
func NewPostgresStore(st *store.Store) *PostgresStore {
	return &PostgresStore{st: st}
}

func (p *PostgresStore) Get(ctx context.Context, key string) (domain.User, bool, error) {
	const query = `SELECT value FROM session_slots WHERE key = $1`

	var payload []byte
	err := p.st.Pool().QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("load session: %w", err)
	}
	user, err := decodeUser(payload)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

func (p *PostgresStore) Put(ctx context.Context, key string, user domain.User) error {
	const query = `
        INSERT INTO session_slots (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	payload, err := encodeUser(user)
	if err != nil {
		return err
	}
	if _, err := p.st.Pool().Exec(ctx, query, key, payload); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM session_slots WHERE key = $1`
	if _, err := p.st.Pool().Exec(ctx, query, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// HealthCheck pings the database.
func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	return p.st.HealthCheck(ctx)
}
