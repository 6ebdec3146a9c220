package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

var accountColumns = []string{
	"id", "number", "account_type", "initial_balance", "current_balance",
	"active", "client_id", "version", "created_at", "updated_at",
}

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(readCommitted)
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func TestAccountRepository_CreateSetsID(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	now := time.Now().UTC()

	pool.ExpectQuery("CreateAccount").
		WithArgs("478758", "SAVINGS", pgxmock.AnyArg(), pgxmock.AnyArg(), true, int64(1), int64(0), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			int64(42), "478758", "SAVINGS",
			decimalToNumeric(decimal.NewFromInt(2000)), decimalToNumeric(decimal.NewFromInt(2000)),
			true, int64(1), int64(0), timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))

	repo := NewAccountRepository(pool)
	account := &domain.Account{
		Number:         "478758",
		Type:           domain.AccountTypeSavings,
		InitialBalance: decimal.NewFromInt(2000),
		CurrentBalance: decimal.NewFromInt(2000),
		Active:         true,
		ClientID:       1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Create(context.Background(), tx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != 42 {
		t.Fatalf("expected ID 42, got %d", account.ID)
	}

	assertExpectations(t, pool)
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("CreateAccount").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := NewAccountRepository(pool).Create(context.Background(), tx, &domain.Account{Number: "478758"})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAccountRepository_GetByNumber(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectQuery("GetAccountByNumber").
		WithArgs("478758").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			int64(1), "478758", "CHECKING",
			decimalToNumeric(decimal.RequireFromString("100.50")), decimalToNumeric(decimal.RequireFromString("75.25")),
			false, int64(9), int64(3), timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))
	pool.ExpectQuery("GetAccountByNumber").
		WithArgs("000000").
		WillReturnError(pgx.ErrNoRows)

	repo := NewAccountRepository(pool)

	account, err := repo.GetByNumber(context.Background(), "478758")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Type != domain.AccountTypeChecking || account.Active || account.Version != 3 {
		t.Fatalf("unexpected account %+v", account)
	}
	if !account.CurrentBalance.Equal(decimal.RequireFromString("75.25")) {
		t.Fatalf("expected balance 75.25, got %s", account.CurrentBalance)
	}

	if _, err := repo.GetByNumber(context.Background(), "000000"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepository_UpdateBalanceVersionCheck(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("UpdateAccountBalance").
		WithArgs("478758", pgxmock.AnyArg(), int64(4), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UpdateAccountBalance").
		WithArgs("478758", pgxmock.AnyArg(), int64(4), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewAccountRepository(pool)
	now := time.Now()

	if err := repo.UpdateBalance(context.Background(), tx, "478758", decimal.NewFromInt(150), 4, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := repo.UpdateBalance(context.Background(), tx, "478758", decimal.NewFromInt(150), 4, now)
	if !errors.Is(err, domain.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestMovementRepository_SumByAccount(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery("SumMovementsByAccount").
		WithArgs("478758").
		WillReturnRows(pgxmock.NewRows([]string{"credits", "debits"}).AddRow(
			decimalToNumeric(decimal.RequireFromString("650.00")),
			decimalToNumeric(decimal.RequireFromString("575.00")),
		))

	credits, debits, err := NewMovementRepository(pool).SumByAccount(context.Background(), "478758")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !credits.Equal(decimal.NewFromInt(650)) || !debits.Equal(decimal.NewFromInt(575)) {
		t.Fatalf("unexpected sums %s / %s", credits, debits)
	}

	assertExpectations(t, pool)
}

func TestMovementRepository_DeleteMissing(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("DeleteMovement :execrows").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewMovementRepository(pool).Delete(context.Background(), tx, 7)
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementRepository_CreateForMissingAccount(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("CreateMovement").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	err := NewMovementRepository(pool).Create(context.Background(), tx, &domain.Movement{AccountNumber: "000000"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMovementRepository_ListWithoutAccounts(t *testing.T) {
	pool := newMockPool(t)

	movements, err := NewMovementRepository(pool).List(context.Background(), domain.MovementFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if movements == nil || len(movements) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", movements)
	}

	assertExpectations(t, pool)
}

func TestClientRepository_UpdateMissing(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectExec("UpdateClient").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewClientRepository(pool).Update(context.Background(), &domain.Client{ID: 5})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestTranslateError(t *testing.T) {
	notFound := errors.New("not found")
	dup := errors.New("dup")
	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, notFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), notFound},
		{"unique", &pgconn.PgError{Code: pgErrUniqueViolation}, dup},
		{"foreign key", &pgconn.PgError{Code: pgErrForeignKeyViolation}, domain.ErrConflict},
		{"check", &pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: "movements_amount_check"}, domain.ErrInvalidInput},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, notFound, dup)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Fatalf("translateError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "100", "1485.50", "-80.25", "0.01"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Errorf("round trip %s: got %s", s, got)
		}
	}
}
