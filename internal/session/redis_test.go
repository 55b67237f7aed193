package session

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestRedisStoreSmoke runs the slot contract against a live Redis when
// REDIS_ADDR is provided.
func TestRedisStoreSmoke(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := NewRedisStore(ctx, RedisOptions{
		Addr:   addr,
		Prefix: "course-tracker-test:" + time.Now().Format("150405.000") + ":",
		TTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer st.Close()

	if err := st.HealthCheck(ctx); err != nil {
		t.Fatalf("health check: %v", err)
	}
	exerciseStore(t, st)
}
