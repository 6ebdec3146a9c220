package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/adapter/repository/memory"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type seqIDGenerator struct {
	n atomic.Int64
}

func (g *seqIDGenerator) Generate() string {
	return fmt.Sprintf("evt-%d", g.n.Add(1))
}

// bank wires the account-service use cases over a fresh in-memory store.
type bank struct {
	store        *memory.Store
	accountRepo  *memory.AccountRepository
	movementRepo *memory.MovementRepository
	outboxRepo   *memory.OutboxRepository
	accounts     *usecase.AccountUseCase
	movements    *usecase.MovementUseCase
	recon        *usecase.ReconciliationUseCase
}

func newBank(t *testing.T, cfg usecase.MovementConfig) *bank {
	t.Helper()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	idGen := &seqIDGenerator{}

	return &bank{
		store:        store,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		accounts:     usecase.NewAccountUseCase(txm, accountRepo, movementRepo, outboxRepo, idGen, nil),
		movements:    usecase.NewMovementUseCase(txm, accountRepo, movementRepo, outboxRepo, idGen, nil, nil, cfg),
		recon:        usecase.NewReconciliationUseCase(accountRepo, movementRepo, nil),
	}
}

func (b *bank) openAccount(t *testing.T, number string, clientID int64, balance string) *domain.Account {
	t.Helper()

	account, err := b.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Number:         number,
		Type:           domain.AccountTypeSavings,
		InitialBalance: dec(balance),
		ClientID:       clientID,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}
	return account
}

func (b *bank) balance(t *testing.T, number string) decimal.Decimal {
	t.Helper()

	account, err := b.accountRepo.GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("get account %s: %v", number, err)
	}
	return account.CurrentBalance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalEq(s string) gomock.Matcher {
	want := dec(s)
	return gomock.Cond(func(x any) bool {
		d, ok := x.(decimal.Decimal)
		return ok && d.Equal(want)
	})
}
