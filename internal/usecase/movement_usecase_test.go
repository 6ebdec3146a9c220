package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func TestMovementUseCase_CreditThenOverdraw(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100")

	credit, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("50"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !credit.ResultingBalance.Equal(dec("150")) {
		t.Errorf("expected resulting balance 150, got %s", credit.ResultingBalance)
	}

	_, err = b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeDebit,
		Amount:        dec("200"),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := b.balance(t, "478758"); !got.Equal(dec("150")) {
		t.Errorf("expected balance 150 after rejected debit, got %s", got)
	}

	list, err := b.movements.ListMovements(ctx, usecase.ListMovementsInput{AccountNumber: "478758"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 movement, got %d", len(list))
	}
}

func TestMovementUseCase_DebitBoundary(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
		balance string
	}{
		{name: "exact balance", amount: "100", balance: "0"},
		{name: "one cent over", amount: "100.01", wantErr: domain.ErrInsufficientFunds, balance: "100"},
		{name: "under balance", amount: "99.99", balance: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, usecase.MovementConfig{})
			b.openAccount(t, "478758", 1, "100")

			m, err := b.movements.CreateMovement(context.Background(), usecase.CreateMovementInput{
				AccountNumber: "478758",
				Type:          domain.MovementTypeDebit,
				Amount:        dec(tt.amount),
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !m.ResultingBalance.Equal(dec(tt.balance)) {
					t.Errorf("expected resulting balance %s, got %s", tt.balance, m.ResultingBalance)
				}
			}

			if got := b.balance(t, "478758"); !got.Equal(dec(tt.balance)) {
				t.Errorf("expected balance %s, got %s", tt.balance, got)
			}
		})
	}
}

func TestMovementUseCase_InputValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateMovementInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   usecase.CreateMovementInput{AccountNumber: "478758", Type: domain.MovementTypeCredit, Amount: decimal.Zero},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero amount is invalid input",
			input:   usecase.CreateMovementInput{AccountNumber: "478758", Type: domain.MovementTypeDebit, Amount: dec("0.00")},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown type",
			input:   usecase.CreateMovementInput{AccountNumber: "478758", Type: "REFUND", Amount: dec("1")},
			wantErr: domain.ErrInvalidMovementType,
		},
		{
			name:    "empty account number",
			input:   usecase.CreateMovementInput{Type: domain.MovementTypeCredit, Amount: dec("1")},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown account",
			input:   usecase.CreateMovementInput{AccountNumber: "000000", Type: domain.MovementTypeCredit, Amount: dec("1")},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "amount too large",
			input:   usecase.CreateMovementInput{AccountNumber: "478758", Type: domain.MovementTypeCredit, Amount: dec("99999999999999")},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, usecase.MovementConfig{})
			b.openAccount(t, "478758", 1, "100")

			_, err := b.movements.CreateMovement(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := b.balance(t, "478758"); !got.Equal(dec("100")) {
				t.Errorf("balance changed to %s", got)
			}
		})
	}
}

func TestMovementUseCase_SubCentAmounts(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100.00")

	for _, tc := range []struct {
		mtype  domain.MovementType
		amount string
	}{
		{domain.MovementTypeCredit, "0.004"},
		{domain.MovementTypeCredit, "100.004"},
		{domain.MovementTypeDebit, "100.004"},
	} {
		_, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
			AccountNumber: "478758",
			Type:          tc.mtype,
			Amount:        dec(tc.amount),
		})
		if !errors.Is(err, domain.ErrAmountScale) || !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s %s: expected ErrAmountScale, got %v", tc.mtype, tc.amount, err)
		}
	}

	if got := b.balance(t, "478758"); !got.Equal(dec("100")) {
		t.Fatalf("balance changed to %s", got)
	}
	movements, err := b.movementRepo.List(ctx, domain.MovementFilter{AccountNumbers: []string{"478758"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("expected no movements, got %d", len(movements))
	}

	m, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("0.010"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ResultingBalance.String() != "100.01" {
		t.Fatalf("expected resulting balance 100.01, got %s", m.ResultingBalance)
	}
}

func TestMovementUseCase_NegativeAmounts(t *testing.T) {
	t.Run("normalized by default", func(t *testing.T) {
		b := newBank(t, usecase.MovementConfig{})
		b.openAccount(t, "478758", 1, "100")

		m, err := b.movements.CreateMovement(context.Background(), usecase.CreateMovementInput{
			AccountNumber: "478758",
			Type:          domain.MovementTypeDebit,
			Amount:        dec("-30"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.Amount.Equal(dec("30")) {
			t.Errorf("expected stored amount 30, got %s", m.Amount)
		}
		if !m.ResultingBalance.Equal(dec("70")) {
			t.Errorf("expected resulting balance 70, got %s", m.ResultingBalance)
		}
	})

	t.Run("rejected when configured", func(t *testing.T) {
		b := newBank(t, usecase.MovementConfig{RejectNegativeAmounts: true})
		b.openAccount(t, "478758", 1, "100")

		_, err := b.movements.CreateMovement(context.Background(), usecase.CreateMovementInput{
			AccountNumber: "478758",
			Type:          domain.MovementTypeCredit,
			Amount:        dec("-30"),
		})
		if !errors.Is(err, domain.ErrNegativeAmount) {
			t.Fatalf("expected ErrNegativeAmount, got %v", err)
		}
	})
}

func TestMovementUseCase_InactiveAccount(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	account := b.openAccount(t, "478758", 1, "100")

	if _, err := b.accounts.UpdateAccountStatus(ctx, account.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("10"),
	})
	if !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}

func TestMovementUseCase_DeleteRestoresBalance(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100")

	m, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeDebit,
		Amount:        dec("40"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.movements.DeleteMovement(ctx, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.balance(t, "478758"); !got.Equal(dec("100")) {
		t.Errorf("expected balance 100, got %s", got)
	}

	if _, err := b.movements.GetMovement(ctx, m.ID); !errors.Is(err, domain.ErrMovementNotFound) {
		t.Errorf("expected ErrMovementNotFound, got %v", err)
	}

	if err := b.movements.DeleteMovement(ctx, m.ID); !errors.Is(err, domain.ErrMovementNotFound) {
		t.Errorf("expected ErrMovementNotFound on second delete, got %v", err)
	}
}

func TestMovementUseCase_ReversalMayGoNegative(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "0")

	credit, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("100"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeDebit,
		Amount:        dec("80"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := b.movements.DeleteMovement(ctx, credit.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.balance(t, "478758"); !got.Equal(dec("-80")) {
		t.Errorf("expected balance -80, got %s", got)
	}
}

func TestMovementUseCase_ConcurrentMovements(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100")

	const credits = 25
	const debits = 25
	var wg sync.WaitGroup
	for i := 0; i < credits+debits; i++ {
		movementType := domain.MovementTypeCredit
		if i%2 == 1 {
			movementType = domain.MovementTypeDebit
		}
		wg.Add(1)
		go func(mt domain.MovementType) {
			defer wg.Done()
			_, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
				AccountNumber: "478758",
				Type:          mt,
				Amount:        dec("1"),
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(movementType)
	}
	wg.Wait()

	if got := b.balance(t, "478758"); !got.Equal(dec("100")) {
		t.Errorf("expected balance 100, got %s", got)
	}

	result, err := b.recon.ReconcileAccount(ctx, "478758")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsReconciled {
		t.Errorf("expected reconciled account, difference %s", result.Difference)
	}
}

func TestMovementUseCase_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "10")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
				AccountNumber: "478758",
				Type:          domain.MovementTypeDebit,
				Amount:        dec("1"),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 {
		t.Errorf("expected 10 successful debits, got %d", succeeded)
	}
	if got := b.balance(t, "478758"); !got.IsZero() {
		t.Errorf("expected balance 0, got %s", got)
	}
}

func TestMovementUseCase_ResultingBalancesFormChain(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "2000")

	steps := []struct {
		typ    domain.MovementType
		amount string
	}{
		{domain.MovementTypeDebit, "575"},
		{domain.MovementTypeCredit, "600"},
		{domain.MovementTypeDebit, "540"},
	}
	for _, s := range steps {
		if _, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
			AccountNumber: "478758",
			Type:          s.typ,
			Amount:        dec(s.amount),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := b.movements.ListMovements(ctx, usecase.ListMovementsInput{AccountNumber: "478758"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := dec("2000")
	for _, m := range list {
		want := prev.Add(m.SignedAmount())
		if !m.ResultingBalance.Equal(want) {
			t.Errorf("movement %d: expected resulting balance %s, got %s", m.ID, want, m.ResultingBalance)
		}
		prev = m.ResultingBalance
	}
	if !prev.Equal(dec("1485")) {
		t.Errorf("expected final balance 1485, got %s", prev)
	}
}

func TestMovementUseCase_ListMovements(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100")

	if _, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758", Type: domain.MovementTypeCredit, Amount: dec("5"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := b.movements.ListMovements(ctx, usecase.ListMovementsInput{AccountNumber: "478758", Type: domain.MovementTypeDebit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}

	from := time.Now().Add(time.Hour)
	to := time.Now()
	_, err = b.movements.ListMovements(ctx, usecase.ListMovementsInput{AccountNumber: "478758", From: &from, To: &to})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestMovementUseCase_UpdateDescription(t *testing.T) {
	b := newBank(t, usecase.MovementConfig{})
	ctx := context.Background()
	b.openAccount(t, "478758", 1, "100")

	m, err := b.movements.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountNumber: "478758", Type: domain.MovementTypeCredit, Amount: dec("5"), Description: "deposit",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := b.movements.UpdateDescription(ctx, m.ID, "salary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != "salary" {
		t.Errorf("expected description salary, got %q", updated.Description)
	}
	if !updated.Amount.Equal(m.Amount) || !updated.ResultingBalance.Equal(m.ResultingBalance) {
		t.Errorf("financial fields changed")
	}
}

func TestMovementUseCase_RollsBackOnOutboxFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	movementRepo := mocks.NewMockMovementRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	account := &domain.Account{ID: 1, Number: "478758", CurrentBalance: dec("100"), Active: true, Version: 3}

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	accountRepo.EXPECT().GetByNumberForUpdate(gomock.Any(), tx, "478758").Return(account, nil)
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "478758", decimalEq("150"), int64(3), gomock.Any()).Return(nil)
	movementRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	idGen.EXPECT().Generate().Return("evt-1")
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(errors.New("outbox down"))
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewMovementUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen, nil, nil, usecase.MovementConfig{})

	_, err := uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("50"),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMovementUseCase_RetriesThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retrier := mocks.NewMockRetrier(ctrl)
	attempts := 0
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, op func() error) error {
		for {
			attempts++
			err := op()
			if !errors.Is(err, domain.ErrConcurrentUpdate) {
				return err
			}
		}
	})

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	movementRepo := mocks.NewMockMovementRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	accountRepo.EXPECT().GetByNumberForUpdate(gomock.Any(), tx, "478758").
		Return(&domain.Account{Number: "478758", CurrentBalance: dec("100"), Active: true}, nil).Times(2)
	gomock.InOrder(
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "478758", gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrConcurrentUpdate),
		accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "478758", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)
	movementRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	idGen.EXPECT().Generate().Return("evt-1")
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)

	uc := usecase.NewMovementUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen, retrier, nil, usecase.MovementConfig{})

	m, err := uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		AccountNumber: "478758",
		Type:          domain.MovementTypeCredit,
		Amount:        dec("1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if !m.ResultingBalance.Equal(dec("101")) {
		t.Errorf("expected resulting balance 101, got %s", m.ResultingBalance)
	}
}
