package tracker

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Clark-Hu/course-tracker/internal/domain"
	"github.com/Clark-Hu/course-tracker/internal/repository"
	"github.com/Clark-Hu/course-tracker/internal/session"
)

// Sample account registered when Options.SeedSampleUser is set.
const (
	SampleUserID     = "user-1"
	SampleUserName   = "Test User"
	SampleUserEmail  = "test@example.com"
	SampleUserSecret = "password123"
)

// Options wires the collaborators of an App. Zero values select in-memory
// sessions, no notices, no latency and the wall clock.
type Options struct {
	Courses        []domain.Course
	Sessions       session.Store
	SessionKey     string
	Notifier       Notifier
	Delay          Delay
	Clock          func() time.Time
	Logger         *log.Logger
	BcryptCost     int
	SeedSampleUser bool
}

// App is the application context. It owns the repositories and the lock
// that serializes every mutation of the ledger and catalog.
type App struct {
	Identity   *Identity
	Catalog    *Catalog
	Ledger     *Ledger
	Aggregator *Aggregator

	repo     *repository.Repository
	sessions session.Store
	logger   *log.Logger
}

// New builds an App from opts.
func New(opts Options) (*App, error) {
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.SessionKey == "" {
		opts.SessionKey = session.DefaultKey
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Delay == nil {
		opts.Delay = NoDelay
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	repo := repository.New(opts.Courses, repository.Options{BcryptCost: opts.BcryptCost})
	mu := &sync.Mutex{}

	svc := service{
		mu:       mu,
		repo:     repo,
		notifier: opts.Notifier,
		delay:    opts.Delay,
	}
	agg := &Aggregator{service: svc}
	app := &App{
		Identity:   &Identity{service: svc, sessions: opts.Sessions, key: opts.SessionKey},
		Catalog:    &Catalog{service: svc},
		Ledger:     &Ledger{service: svc, aggregator: agg, clock: opts.Clock},
		Aggregator: agg,
		repo:       repo,
		sessions:   opts.Sessions,
		logger:     opts.Logger,
	}

	if opts.SeedSampleUser {
		if _, err := repo.Users.Create(repository.UserCreateParams{
			ID:     SampleUserID,
			Name:   SampleUserName,
			Email:  SampleUserEmail,
			Secret: SampleUserSecret,
		}); err != nil {
			return nil, fmt.Errorf("seed sample user: %w", err)
		}
	}

	app.logger.Printf("tracker: catalog seeded with %d courses, %d users", len(repo.Courses.List()), repo.Users.Count())
	return app, nil
}

// Sessions exposes the session slot backend, e.g. for health checks.
func (a *App) Sessions() session.Store {
	return a.sessions
}

// service carries the collaborators shared by every component.
type service struct {
	mu       *sync.Mutex
	repo     *repository.Repository
	notifier Notifier
	delay    Delay
}

func (s service) success(ctx context.Context, message string) {
	s.notifier.Notify(ctx, Notice{Level: NoticeSuccess, Message: message})
}

func (s service) failure(ctx context.Context, message string) {
	s.notifier.Notify(ctx, Notice{Level: NoticeError, Message: message})
}
