package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new account and sets its ID.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	row, err := txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		Number:         account.Number,
		AccountType:    string(account.Type),
		InitialBalance: decimalToNumeric(account.InitialBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		Active:         account.Active,
		ClientID:       account.ClientID,
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return translateError(err, nil, domain.ErrDuplicateAccount)
	}

	account.ID = row.ID

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound, nil)
	}

	return rowToAccount(row), nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound, nil)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound, nil)
	}

	return rowToAccount(row), nil
}

// GetByNumberForUpdate retrieves an account by number with a FOR UPDATE lock.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByNumberForUpdate(ctx, number)
	if err != nil {
		return nil, translateError(err, domain.ErrAccountNotFound, nil)
	}

	return rowToAccount(row), nil
}

// List lists accounts matching filter ordered by ID.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		ClientID: optionalInt8(filter.ClientID),
		Active:   optionalBool(filter.Active),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance writes a new balance if the stored version still equals
// expectedVersion, and bumps the version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	affected, err := txQueries(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		Number:         number,
		CurrentBalance: decimalToNumeric(balance),
		Version:        expectedVersion,
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConcurrentUpdate
	}

	return nil
}

// UpdateStatus changes the active flag of an account.
func (r *AccountRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id int64, active bool, updatedAt time.Time) error {
	affected, err := txQueries(tx).UpdateAccountStatus(ctx, generated.UpdateAccountStatusParams{
		ID:        id,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Its movements cascade.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id int64) error {
	affected, err := txQueries(tx).DeleteAccount(ctx, id)
	if err != nil {
		return translateError(err, nil, nil)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		Number:         row.Number,
		Type:           domain.AccountType(row.AccountType),
		InitialBalance: numericToDecimal(row.InitialBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		Active:         row.Active,
		ClientID:       row.ClientID,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
