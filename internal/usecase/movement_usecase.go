package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// MovementConfig tunes movement validation.
type MovementConfig struct {
	// RejectNegativeAmounts makes CreateMovement fail with
	// domain.ErrNegativeAmount instead of storing the absolute value.
	RejectNegativeAmounts bool
}

// MovementUseCase records and reverses movements. It is the only writer of
// Account.CurrentBalance.
type MovementUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
	cfg          MovementConfig
}

// NewMovementUseCase creates a new MovementUseCase. retrier and metrics may be nil.
func NewMovementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	cfg MovementConfig,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
		cfg:          cfg,
	}
}

// CreateMovementInput represents input for recording a movement.
type CreateMovementInput struct {
	AccountNumber string
	Type          domain.MovementType
	Amount        decimal.Decimal
	Description   string
}

// CreateMovement applies a credit or debit to an account and records it.
// The balance update and the movement insert commit together or not at all.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	start := time.Now()

	// Validate before starting the transaction
	movementType, err := domain.ParseMovementType(string(input.Type))
	if err != nil {
		uc.recordError(err)
		return nil, err
	}
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		uc.recordError(err)
		return nil, err
	}
	amount, err := domain.NormalizeAmount(input.Amount, uc.cfg.RejectNegativeAmounts)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		uc.recordError(err)
		return nil, err
	}

	var movement *domain.Movement
	err = withRetry(ctx, uc.retrier, func() error {
		m, err := uc.createMovement(ctx, input.AccountNumber, movementType, amount, input.Description)
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsCreated.WithLabelValues(string(movementType)).Inc()
		uc.metrics.MovementAmount.WithLabelValues(string(movementType)).Observe(amount.InexactFloat64())
		uc.metrics.MovementDuration.Observe(time.Since(start).Seconds())
	}

	zerolog.Ctx(ctx).Debug().
		Int64("movement_id", movement.ID).
		Str("account_number", movement.AccountNumber).
		Str("type", string(movement.Type)).
		Str("amount", movement.Amount.String()).
		Str("resulting_balance", movement.ResultingBalance.String()).
		Msg("movement created")

	return movement, nil
}

func (uc *MovementUseCase) createMovement(
	ctx context.Context,
	accountNumber string,
	movementType domain.MovementType,
	amount decimal.Decimal,
	description string,
) (*domain.Movement, error) {
	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock account
	account, err := uc.accountRepo.GetByNumberForUpdate(txCtx, tx, accountNumber)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, domain.ErrInactiveAccount
	}

	newBalance, err := account.ApplyMovement(movementType, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.Number, newBalance, account.Version, now); err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		AccountNumber:    account.Number,
		Timestamp:        now,
		Type:             movementType,
		Amount:           amount,
		ResultingBalance: newBalance,
		Description:      description,
		CreatedAt:        now,
	}
	if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
		return nil, err
	}

	// Emit movement created event
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(movement.ID, 10),
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeMovementCreated,
		Payload: map[string]any{
			"movement_id":       movement.ID,
			"account_number":    movement.AccountNumber,
			"type":              string(movement.Type),
			"amount":            movement.Amount.String(),
			"resulting_balance": movement.ResultingBalance.String(),
			"event_at":          now.Format(time.RFC3339Nano),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return movement, nil
}

// DeleteMovement removes a movement and undoes its effect on the account
// balance. The reversal has no floor: undoing a credit that was already
// spent leaves the account negative.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id int64) error {
	start := time.Now()

	var deleted *domain.Movement
	err := withRetry(ctx, uc.retrier, func() error {
		m, err := uc.deleteMovement(ctx, id)
		if err != nil {
			return err
		}
		deleted = m
		return nil
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsDeleted.WithLabelValues(string(deleted.Type)).Inc()
		uc.metrics.MovementDuration.Observe(time.Since(start).Seconds())
	}

	zerolog.Ctx(ctx).Debug().
		Int64("movement_id", id).
		Str("account_number", deleted.AccountNumber).
		Msg("movement reversed")

	return nil
}

func (uc *MovementUseCase) deleteMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	// Resolve the owning account first so locks are always taken
	// account row first, then movement row.
	existing, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByNumberForUpdate(txCtx, tx, existing.AccountNumber)
	if err != nil {
		return nil, err
	}

	movement, err := uc.movementRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	newBalance := account.RevertMovement(movement)
	now := time.Now().UTC().Truncate(time.Microsecond)

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.Number, newBalance, account.Version, now); err != nil {
		return nil, err
	}

	if err := uc.movementRepo.Delete(txCtx, tx, id); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(movement.ID, 10),
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeMovementDeleted,
		Payload: map[string]any{
			"movement_id":    movement.ID,
			"account_number": movement.AccountNumber,
			"type":           string(movement.Type),
			"amount":         movement.Amount.String(),
			"balance_after":  newBalance.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return movement, nil
}

// GetMovement retrieves a movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id int64) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListMovementsInput represents input for listing movements of one account.
type ListMovementsInput struct {
	AccountNumber string
	Type          domain.MovementType
	From          *time.Time
	To            *time.Time
}

// ListMovements lists the movements of an account ordered by timestamp.
// No match yields an empty slice.
func (uc *MovementUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.Movement, error) {
	if err := domain.ValidateDateRange(input.From, input.To); err != nil {
		return nil, err
	}

	filter := domain.MovementFilter{
		AccountNumbers: []string{input.AccountNumber},
		From:           input.From,
		To:             input.To,
	}
	if input.Type != "" {
		t, err := domain.ParseMovementType(string(input.Type))
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}

	movements, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []*domain.Movement{}
	}

	return movements, nil
}

// UpdateDescription changes the free-text description of a movement.
// Financial fields are immutable.
func (uc *MovementUseCase) UpdateDescription(ctx context.Context, id int64, description string) (*domain.Movement, error) {
	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	if err := uc.movementRepo.UpdateDescription(ctx, id, description); err != nil {
		return nil, err
	}

	return uc.movementRepo.GetByID(ctx, id)
}

func (uc *MovementUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.MovementErrors.WithLabelValues(errorType(err)).Inc()
}

// errorType returns a low-cardinality label for err.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive_account"
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrMovementNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConcurrentUpdate), errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidMovementType):
		return "invalid_input"
	default:
		return "internal"
	}
}

// withRetry runs operation through r, or once when r is nil.
func withRetry(ctx context.Context, r Retrier, operation func() error) error {
	if r == nil {
		return operation()
	}
	return r.Retry(ctx, operation)
}
