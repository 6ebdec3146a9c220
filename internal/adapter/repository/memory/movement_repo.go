package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	store *Store
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(store *Store) *MovementRepository {
	return &MovementRepository{store: store}
}

// Create stages a new movement and assigns its ID.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, exists := r.store.accounts[movement.AccountNumber]
	r.store.mu.Unlock()
	if !exists {
		return domain.ErrAccountNotFound
	}

	movement.ID = r.store.allocMovementID()
	stored := copyMovement(movement)

	return t.stage(func(s *Store) (func(), error) {
		if _, ok := s.accounts[stored.AccountNumber]; !ok {
			return nil, domain.ErrAccountNotFound
		}
		s.movements[stored.ID] = stored
		return func() { delete(s.movements, stored.ID) }, nil
	})
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.movements[id]
	if !ok {
		return nil, domain.ErrMovementNotFound
	}
	return copyMovement(m), nil
}

// GetByIDForUpdate locks and retrieves a movement by ID.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Movement, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, movementKey(id)); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// List lists movements matching filter ordered by timestamp.
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	movements := make([]*domain.Movement, 0)
	for _, m := range r.store.movements {
		if filter.Matches(m) {
			movements = append(movements, copyMovement(m))
		}
	}
	sortMovements(movements)

	return movements, nil
}

// UpdateDescription changes the description of a movement.
func (r *MovementRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.movements[id]
	if !ok {
		return domain.ErrMovementNotFound
	}
	m.Description = description
	return nil
}

// Delete stages removal of a movement.
func (r *MovementRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	return t.stage(func(s *Store) (func(), error) {
		m, ok := s.movements[id]
		if !ok {
			return nil, domain.ErrMovementNotFound
		}
		delete(s.movements, id)
		return func() { s.movements[id] = m }, nil
	})
}

// DeleteByAccount stages removal of every movement of an account and returns
// how many there were.
func (r *MovementRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountNumber string) (int64, error) {
	t, err := txFrom(tx)
	if err != nil {
		return 0, err
	}

	r.store.mu.Lock()
	var count int64
	for _, m := range r.store.movements {
		if m.AccountNumber == accountNumber {
			count++
		}
	}
	r.store.mu.Unlock()

	err = t.stage(func(s *Store) (func(), error) {
		removed := make([]*domain.Movement, 0)
		for id, m := range s.movements {
			if m.AccountNumber == accountNumber {
				removed = append(removed, m)
				delete(s.movements, id)
			}
		}
		return func() {
			for _, m := range removed {
				s.movements[m.ID] = m
			}
		}, nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// SumByAccount totals credit and debit amounts for an account.
func (r *MovementRepository) SumByAccount(ctx context.Context, accountNumber string) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	credits, debits := decimal.Zero, decimal.Zero
	for _, m := range r.store.movements {
		if m.AccountNumber != accountNumber {
			continue
		}
		if m.Type == domain.MovementTypeCredit {
			credits = credits.Add(m.Amount)
		} else {
			debits = debits.Add(m.Amount)
		}
	}

	return credits, debits, nil
}
