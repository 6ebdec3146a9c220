package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Number         string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	ClientID       int64
}

// CreateAccount opens a new active account whose current balance starts at
// the initial balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	number := strings.TrimSpace(input.Number)
	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, err
	}
	accountType, err := domain.ParseAccountType(string(input.Type))
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}
	if input.ClientID <= 0 {
		return nil, domain.ErrInvalidClientID
	}

	if _, err := uc.accountRepo.GetByNumber(ctx, number); err == nil {
		return nil, domain.ErrDuplicateAccount
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC().Truncate(time.Microsecond)
	balance := input.InitialBalance.Round(2)

	account := &domain.Account{
		Number:         number,
		Type:           accountType,
		InitialBalance: balance,
		CurrentBalance: balance,
		Active:         true,
		ClientID:       input.ClientID,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.Number,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_number":  account.Number,
			"account_type":    string(account.Type),
			"client_id":       account.ClientID,
			"initial_balance": account.InitialBalance.String(),
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

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetAccountByNumber retrieves an account by its number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	ClientID *int64
	Active   *bool
}

// ListAccounts lists accounts matching the input. No match yields an empty slice.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	accounts, err := uc.accountRepo.List(ctx, domain.AccountFilter{
		ClientID: input.ClientID,
		Active:   input.Active,
	})
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return accounts, nil
}

// UpdateAccountStatus activates or deactivates an account.
func (uc *AccountUseCase) UpdateAccountStatus(ctx context.Context, id int64, active bool) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := uc.accountRepo.UpdateStatus(txCtx, tx, id, active, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.Number,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountStatusChanged,
		Payload: map[string]any{
			"account_number": account.Number,
			"active":         active,
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

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("status_change").Inc()
	}

	account.Active = active
	account.UpdatedAt = now

	return account, nil
}

// DeleteAccount removes an account together with all of its movements.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id int64) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	removed, err := uc.movementRepo.DeleteByAccount(txCtx, tx, account.Number)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.Number,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountDeleted,
		Payload: map[string]any{
			"account_number":    account.Number,
			"account_id":        strconv.FormatInt(account.ID, 10),
			"movements_removed": removed,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("delete").Inc()
	}

	return nil
}

// GetAccountsWithMovements returns the client's accounts, each with its
// movements inside [from, to] ordered by timestamp.
func (uc *AccountUseCase) GetAccountsWithMovements(ctx context.Context, clientID int64, from, to *time.Time) ([]domain.AccountWithMovements, error) {
	if err := domain.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	return loadAccountsWithMovements(ctx, uc.accountRepo, uc.movementRepo, clientID, from, to)
}

func loadAccountsWithMovements(
	ctx context.Context,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	clientID int64,
	from, to *time.Time,
) ([]domain.AccountWithMovements, error) {
	accounts, err := accountRepo.List(ctx, domain.AccountFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}

	result := make([]domain.AccountWithMovements, 0, len(accounts))
	if len(accounts) == 0 {
		return result, nil
	}

	numbers := make([]string, 0, len(accounts))
	for _, a := range accounts {
		numbers = append(numbers, a.Number)
	}

	movements, err := movementRepo.List(ctx, domain.MovementFilter{
		AccountNumbers: numbers,
		From:           from,
		To:             to,
	})
	if err != nil {
		return nil, err
	}

	byAccount := make(map[string][]*domain.Movement, len(accounts))
	for _, m := range movements {
		byAccount[m.AccountNumber] = append(byAccount[m.AccountNumber], m)
	}

	for _, a := range accounts {
		result = append(result, domain.AccountWithMovements{
			Account:   a,
			Movements: byAccount[a.Number],
		})
	}

	return result, nil
}
