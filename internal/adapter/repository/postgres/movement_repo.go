package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	queries *generated.Queries
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db generated.DBTX) *MovementRepository {
	return &MovementRepository{
		queries: generated.New(db),
	}
}

// Create inserts a movement and sets its ID.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	row, err := txQueries(tx).CreateMovement(ctx, generated.CreateMovementParams{
		AccountNumber:    movement.AccountNumber,
		MovementDate:     timeToPgTimestamptz(movement.Timestamp),
		MovementType:     string(movement.Type),
		Amount:           decimalToNumeric(movement.Amount),
		ResultingBalance: decimalToNumeric(movement.ResultingBalance),
		Description:      movement.Description,
		CreatedAt:        timeToPgTimestamptz(movement.CreatedAt),
	})
	if err != nil {
		// A foreign key failure here means the account vanished.
		err = translateError(err, nil, nil)
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	movement.ID = row.ID

	return nil
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	row, err := r.queries.GetMovementByID(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrMovementNotFound, nil)
	}

	return rowToMovement(row), nil
}

// GetByIDForUpdate retrieves a movement by ID with a FOR UPDATE lock.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Movement, error) {
	row, err := txQueries(tx).GetMovementByIDForUpdate(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrMovementNotFound, nil)
	}

	return rowToMovement(row), nil
}

// List lists movements matching filter ordered by timestamp.
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	movements := make([]*domain.Movement, 0)
	if len(filter.AccountNumbers) == 0 {
		return movements, nil
	}

	var movementType pgtype.Text
	if filter.Type != "" {
		movementType = pgtype.Text{String: string(filter.Type), Valid: true}
	}

	rows, err := r.queries.ListMovements(ctx, generated.ListMovementsParams{
		AccountNumbers: filter.AccountNumbers,
		MovementType:   movementType,
		FromDate:       optionalTimestamptz(filter.From),
		ToDate:         optionalTimestamptz(filter.To),
	})
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}

	return movements, nil
}

// UpdateDescription changes the description of a movement.
func (r *MovementRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	affected, err := r.queries.UpdateMovementDescription(ctx, generated.UpdateMovementDescriptionParams{
		ID:          id,
		Description: description,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// Delete removes a movement.
func (r *MovementRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	affected, err := txQueries(tx).DeleteMovement(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// DeleteByAccount removes all movements of an account.
func (r *MovementRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountNumber string) (int64, error) {
	return txQueries(tx).DeleteMovementsByAccount(ctx, accountNumber)
}

// SumByAccount totals credit and debit amounts for an account.
func (r *MovementRepository) SumByAccount(ctx context.Context, accountNumber string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.SumMovementsByAccount(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.Credits), numericToDecimal(row.Debits), nil
}

func rowToMovement(row generated.Movement) *domain.Movement {
	return &domain.Movement{
		ID:               row.ID,
		AccountNumber:    row.AccountNumber,
		Timestamp:        row.MovementDate.Time,
		Type:             domain.MovementType(row.MovementType),
		Amount:           numericToDecimal(row.Amount),
		ResultingBalance: numericToDecimal(row.ResultingBalance),
		Description:      row.Description,
		CreatedAt:        row.CreatedAt.Time,
	}
}
