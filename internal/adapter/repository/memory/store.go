// Package memory provides process-local implementations of the repository
// ports. Transactions take per-row locks held until Commit or Rollback and
// buffer their writes, which are applied atomically on Commit.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/iho/gobank/internal/domain"
)

// Store holds all in-memory state shared by the repositories.
type Store struct {
	mu sync.Mutex

	accounts       map[string]*domain.Account // by number
	accountNumbers map[int64]string
	movements      map[int64]*domain.Movement
	clients        map[int64]*domain.Client
	events         []*domain.OutboxEvent

	nextAccountID  int64
	nextMovementID int64
	nextClientID   int64

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*domain.Account),
		accountNumbers: make(map[int64]string),
		movements:      make(map[int64]*domain.Movement),
		clients:        make(map[int64]*domain.Client),
		locks:          make(map[string]chan struct{}),
	}
}

// rowLock returns the lock channel for key, creating it on first use.
func (s *Store) rowLock(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[key] = l
	}
	return l
}

// acquire blocks until the row lock for key is free or ctx is done.
func (s *Store) acquire(ctx context.Context, key string) error {
	l := s.rowLock(key)
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(key string) {
	l := s.rowLock(key)
	select {
	case <-l:
	default:
	}
}

func accountKey(number string) string { return "account:" + number }

func movementKey(id int64) string { return "movement:" + strconv.FormatInt(id, 10) }

func (s *Store) allocAccountID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	return s.nextAccountID
}

func (s *Store) allocMovementID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovementID++
	return s.nextMovementID
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func copyMovement(m *domain.Movement) *domain.Movement {
	c := *m
	return &c
}

func copyClient(c *domain.Client) *domain.Client {
	out := *c
	if c.Person.Age != nil {
		age := *c.Person.Age
		out.Person.Age = &age
	}
	return &out
}

func sortAccounts(accounts []*domain.Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
}

func sortMovements(movements []*domain.Movement) {
	sort.Slice(movements, func(i, j int) bool {
		if movements[i].Timestamp.Equal(movements[j].Timestamp) {
			return movements[i].ID < movements[j].ID
		}
		return movements[i].Timestamp.Before(movements[j].Timestamp)
	})
}
