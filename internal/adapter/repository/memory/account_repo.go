package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account and assigns its ID.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, exists := r.store.accounts[account.Number]
	r.store.mu.Unlock()
	if exists {
		return domain.ErrDuplicateAccount
	}

	account.ID = r.store.allocAccountID()
	stored := copyAccount(account)

	return t.stage(func(s *Store) (func(), error) {
		if _, ok := s.accounts[stored.Number]; ok {
			return nil, domain.ErrDuplicateAccount
		}
		s.accounts[stored.Number] = stored
		s.accountNumbers[stored.ID] = stored.Number
		return func() {
			delete(s.accounts, stored.Number)
			delete(s.accountNumbers, stored.ID)
		}, nil
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	number, ok := r.store.accountNumbers[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(r.store.accounts[number]), nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// GetByIDForUpdate locks and retrieves an account by ID.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	r.store.mu.Lock()
	number, ok := r.store.accountNumbers[id]
	r.store.mu.Unlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	account, err := r.GetByNumberForUpdate(ctx, tx, number)
	if err != nil {
		return nil, err
	}
	if account.ID != id {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// GetByNumberForUpdate locks and retrieves an account by number. The lock is
// held until the transaction ends.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, accountKey(number)); err != nil {
		return nil, err
	}

	return r.GetByNumber(ctx, number)
}

// List lists accounts matching filter ordered by ID.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	accounts := make([]*domain.Account, 0)
	for _, a := range r.store.accounts {
		if filter.Matches(a) {
			accounts = append(accounts, copyAccount(a))
		}
	}
	sortAccounts(accounts)

	return accounts, nil
}

// UpdateBalance stages a balance write guarded by the account version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	current, err := r.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	if current.Version != expectedVersion {
		return domain.ErrConcurrentUpdate
	}

	return t.stage(func(s *Store) (func(), error) {
		a, ok := s.accounts[number]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		if a.Version != expectedVersion {
			return nil, domain.ErrConcurrentUpdate
		}
		previous := *a
		a.CurrentBalance = balance
		a.Version++
		a.UpdatedAt = updatedAt
		return func() { *a = previous }, nil
	})
}

// UpdateStatus stages an active flag change.
func (r *AccountRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id int64, active bool, updatedAt time.Time) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return t.stage(func(s *Store) (func(), error) {
		number, ok := s.accountNumbers[id]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		a := s.accounts[number]
		previous := *a
		a.Active = active
		a.UpdatedAt = updatedAt
		return func() { *a = previous }, nil
	})
}

// Delete stages removal of an account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return t.stage(func(s *Store) (func(), error) {
		number, ok := s.accountNumbers[id]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		// Movements cascade with their account.
		removed := make([]*domain.Movement, 0)
		for mid, m := range s.movements {
			if m.AccountNumber == number {
				removed = append(removed, m)
				delete(s.movements, mid)
			}
		}
		a := s.accounts[number]
		delete(s.accounts, number)
		delete(s.accountNumbers, id)
		return func() {
			s.accounts[number] = a
			s.accountNumbers[id] = number
			for _, m := range removed {
				s.movements[m.ID] = m
			}
		}, nil
	})
}
