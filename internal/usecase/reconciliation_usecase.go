package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// ReconciliationUseCase checks stored balances against movement history
type ReconciliationUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
	metrics      *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		metrics:      metrics,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountNumber     string
	InitialBalance    decimal.Decimal
	TotalCredits      decimal.Decimal
	TotalDebits       decimal.Decimal
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes initial + credits - debits for an account and
// compares it with the stored current balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountNumber string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, account)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	credits, debits, err := uc.movementRepo.SumByAccount(ctx, account.Number)
	if err != nil {
		return nil, err
	}

	calculated := account.InitialBalance.Add(credits).Sub(debits)
	difference := account.CurrentBalance.Sub(calculated)

	return &ReconciliationResult{
		AccountNumber:     account.Number,
		InitialBalance:    account.InitialBalance,
		TotalCredits:      credits,
		TotalDebits:       debits,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        difference,
		IsReconciled:      difference.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts, err := uc.accountRepo.List(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.reconcile(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.Number, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport reconciles every account and lists the ones
// that disagree with their movements.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationDiscrepancies.Set(float64(len(report.Discrepancies)))
	}

	return report, nil
}
