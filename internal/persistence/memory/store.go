// Package memory is an in-process storage backend implementing the repository
// interfaces. Transactions clone the state, run against the clone, and swap it in
// on success.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/orgwise/orgchart-service/internal/domain"
	"github.com/orgwise/orgchart-service/internal/repository"
)

type state struct {
	persons         map[string]domain.Person
	functions       map[string]domain.Function
	jobTitles       map[string]domain.JobTitle
	roles           map[int64]domain.Role
	personAliases   []domain.PersonAlias
	functionAliases []domain.FunctionAlias
	changes         []domain.ChangeLogEntry
	nextID          int64
}

func newState() *state {
	return &state{
		persons:   make(map[string]domain.Person),
		functions: make(map[string]domain.Function),
		jobTitles: make(map[string]domain.JobTitle),
		roles:     make(map[int64]domain.Role),
	}
}

func (s *state) clone() *state {
	return &state{
		persons:         maps.Clone(s.persons),
		functions:       maps.Clone(s.functions),
		jobTitles:       maps.Clone(s.jobTitles),
		roles:           maps.Clone(s.roles),
		personAliases:   slices.Clone(s.personAliases),
		functionAliases: slices.Clone(s.functionAliases),
		changes:         slices.Clone(s.changes),
		nextID:          s.nextID,
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store holds the canonical state. Writers are serialized by mu.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

type txKey struct{}

type txScope struct {
	store *Store
	st    *state
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Persons:   &personRepo{s: s},
		Functions: &functionRepo{s: s},
		JobTitles: &jobTitleRepo{s: s},
		Roles:     &roleRepo{s: s},
		Aliases:   &aliasRepo{s: s},
		Reports:   &reportRepo{s: s},
		Tx:        s,
	}
}

// WithTx runs fn against a private copy of the state. The copy replaces the
// canonical state only when fn succeeds. Nested calls join the outer scope.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.scope(ctx); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, &txScope{store: s, st: working})); err != nil {
		return err
	}
	s.st = working
	return nil
}

// RecordChange appends a change log row. The service only reads this table;
// the method exists to seed fixtures.
func (s *Store) RecordChange(entry domain.ChangeLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.st.id()
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = s.now()
	}
	s.st.changes = append(s.st.changes, entry)
}

func (s *Store) scope(ctx context.Context) (*txScope, bool) {
	scope, ok := ctx.Value(txKey{}).(*txScope)
	if !ok || scope.store != s {
		return nil, false
	}
	return scope, true
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if scope, ok := s.scope(ctx); ok {
		return fn(scope.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if scope, ok := s.scope(ctx); ok {
		return fn(scope.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.st.clone()
	if err := fn(working); err != nil {
		return err
	}
	s.st = working
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func sameString(a *string, b string) bool {
	return a != nil && *a == b
}
