package usecase

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create persists account and assigns its ID.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number string) (*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	// UpdateBalance writes balance and bumps the version, but only if the
	// stored version still equals expectedVersion. Otherwise it returns
	// domain.ErrConcurrentUpdate.
	UpdateBalance(ctx context.Context, tx Transaction, number string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id int64, active bool, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id int64) error
}

// MovementRepository defines data access for movements.
type MovementRepository interface {
	// Create persists movement and assigns its ID.
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id int64) (*domain.Movement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Movement, error)
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, tx Transaction, id int64) error
	DeleteByAccount(ctx context.Context, tx Transaction, accountNumber string) (int64, error)
	// SumByAccount returns the totals of credit and debit amounts recorded
	// for the account.
	SumByAccount(ctx context.Context, accountNumber string) (credits, debits decimal.Decimal, err error)
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	// Create persists client and assigns its ID.
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByIdentification(ctx context.Context, identification string) (*domain.Client, error)
	List(ctx context.Context, active *bool) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id int64) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// ClientDirectory resolves clients owned by the client service.
type ClientDirectory interface {
	FetchClient(ctx context.Context, ref domain.ClientRef) (*domain.ClientIdentity, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
// Get returns ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
