package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
	"github.com/Clark-Hu/course-tracker/internal/config"
	"github.com/Clark-Hu/course-tracker/internal/tracker"
)

func buildTestServer(tb testing.TB) *Server {
	tb.Helper()
	return buildTestServerWithDelay(tb, nil)
}

func buildTestServerWithDelay(tb testing.TB, delay tracker.Delay) *Server {
	tb.Helper()
	cfg := config.Config{
		Port:             "0",
		ReadTimeoutSecs:  15,
		WriteTimeoutSecs: 15,
		IdleTimeoutSecs:  60,
	}

	app, err := tracker.New(tracker.Options{
		Courses:        catalog.DefaultCourses(),
		BcryptCost:     bcrypt.MinCost,
		SeedSampleUser: true,
		Delay:          delay,
	})
	if err != nil {
		tb.Fatalf("build app: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	srv := New(cfg, app, logger)
	// Replace chi router to avoid default middleware noise.
	srv.router = chi.NewRouter()
	srv.registerRoutes()
	return srv
}

func do(t testing.TB, srv *Server, method, path, body, sessionKey string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if sessionKey != "" {
		req.Header.Set(SessionKeyHeader, sessionKey)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	srv := buildTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	srv := buildTestServer(t)

	rec := do(t, srv, http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	user := decode[userResponse](t, rec)
	if user.ID == "" || user.Email != "ann@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("pw")) {
		t.Fatalf("secret leaked in response: %s", rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/auth/me", "", "")
	if rec.Code != http.StatusOK || decode[userResponse](t, rec).ID != user.ID {
		t.Fatalf("me after register = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/auth/logout", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/auth/me", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("me after logout = %d, want 404", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/auth/login", `{"email":"ann@x.com","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/auth/login", `{"email":"ann@x.com","password":"pw"}`, "")
	if rec.Code != http.StatusOK || decode[userResponse](t, rec).ID != user.ID {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterInvalidPayload(t *testing.T) {
	srv := buildTestServer(t)

	rec := do(t, srv, http.MethodPost, "/auth/register", "invalid json", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (invalid json)", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/auth/register", `{"name":"","email":"","password":""}`, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (missing fields)", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/auth/register", `{"name":"a","email":"b","password":"c","admin":true}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (unknown field)", rec.Code)
	}
}

func TestListAndGetCourses(t *testing.T) {
	srv := buildTestServer(t)

	rec := do(t, srv, http.MethodGet, "/courses?sort=newest", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	list := decode[courseListResponse](t, rec)
	if len(list.Items) != 5 || list.Items[0].ID != "5" {
		t.Fatalf("unexpected list: %+v", list.Items)
	}
	if list.Items[0].CreatedAt != "2024-02-25" || list.Items[0].Rating != 70 {
		t.Fatalf("unexpected course payload: %+v", list.Items[0])
	}

	rec = do(t, srv, http.MethodGet, "/courses?sort=best", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid sort status = %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/courses/2", "", "")
	if rec.Code != http.StatusOK || decode[courseResponse](t, rec).Instructor != "Prof. Michael Chen" {
		t.Fatalf("get course = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/courses/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing course status = %d, want 404", rec.Code)
	}
}

func TestEnrollAndRateFlow(t *testing.T) {
	srv := buildTestServer(t)

	rec := do(t, srv, http.MethodPost, "/courses/1/enrollments", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous enroll status = %d, want 401", rec.Code)
	}

	do(t, srv, http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`, "")

	rec = do(t, srv, http.MethodPost, "/courses/1/ratings", `{"rating":80}`, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("rate before enroll status = %d, want 403", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/courses/1/enrollments", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodPost, "/courses/1/enrollments", "", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second enroll status = %d, want 409", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/courses/99/enrollments", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown course enroll status = %d, want 404", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/courses/1/ratings", `{"rating":101}`, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("out of range rating status = %d, want 422", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/courses/1/ratings", `{}`, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing rating status = %d, want 422", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/courses/1/ratings", `{"rating":80}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rate status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rating := decode[ratingResponse](t, rec); rating.CourseRating != 80 || rating.Rating != 80 {
		t.Fatalf("unexpected rating payload: %+v", rating)
	}

	rec = do(t, srv, http.MethodGet, "/me/enrollments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list enrollments status = %d", rec.Code)
	}
	list := decode[enrollmentListResponse](t, rec)
	if len(list.Items) != 1 {
		t.Fatalf("enrollments = %+v, want 1", list.Items)
	}
	item := list.Items[0]
	if item.UserRating == nil || *item.UserRating != 80 || item.Course == nil || item.Course.Rating != 80 {
		t.Fatalf("unexpected enrollment: %+v", item)
	}

	rec = do(t, srv, http.MethodGet, "/me/enrollments?q=databases", "", "")
	if len(decode[enrollmentListResponse](t, rec).Items) != 0 {
		t.Fatalf("search should filter out non-matching enrollments")
	}
}

func TestSessionKeyHeaderSeparatesClients(t *testing.T) {
	srv := buildTestServer(t)

	rec := do(t, srv, http.MethodPost, "/auth/login", `{"email":"test@example.com","password":"password123"}`, "client-a")
	if rec.Code != http.StatusOK {
		t.Fatalf("sample login status = %d: %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, srv, http.MethodGet, "/auth/me", "", "client-a"); rec.Code != http.StatusOK {
		t.Fatalf("client-a me = %d, want 200", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/auth/me", "", "client-b"); rec.Code != http.StatusNotFound {
		t.Fatalf("client-b me = %d, want 404", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/auth/me", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("default slot me = %d, want 404", rec.Code)
	}
}

func TestSubmitRatingReportsAggregateWithoutReread(t *testing.T) {
	var (
		mu  sync.Mutex
		ops []string
	)
	srv := buildTestServerWithDelay(t, func(ctx context.Context, op string) error {
		mu.Lock()
		ops = append(ops, op)
		mu.Unlock()
		return ctx.Err()
	})

	do(t, srv, http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@x.com","password":"pw"}`, "")
	do(t, srv, http.MethodPost, "/courses/2/enrollments", "", "")

	mu.Lock()
	ops = nil
	mu.Unlock()

	rec := do(t, srv, http.MethodPost, "/courses/2/ratings", `{"rating":45}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rate status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rating := decode[ratingResponse](t, rec); rating.CourseRating != 45 {
		t.Fatalf("courseRating = %d, want 45", rating.CourseRating)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ops) != 1 || ops[0] != tracker.OpSubmitRating {
		t.Fatalf("delayed ops = %v, want only %s", ops, tracker.OpSubmitRating)
	}
}
