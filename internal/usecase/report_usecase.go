package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// ReportUseCase assembles account statements across the client service and
// the local account store.
type ReportUseCase struct {
	clients      ClientDirectory
	accountRepo  AccountRepository
	movementRepo MovementRepository
	metrics      *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	clients ClientDirectory,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	metrics *metrics.Metrics,
) *ReportUseCase {
	return &ReportUseCase{
		clients:      clients,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		metrics:      metrics,
	}
}

// ReportInput represents input for generating a statement.
type ReportInput struct {
	Client domain.ClientRef
	From   *time.Time
	To     *time.Time
}

// GenerateReport returns one row per movement of the client's accounts within
// the date range. A client lookup failure aborts the report; no partial data
// is ever returned.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, input ReportInput) ([]domain.ReportRow, error) {
	if err := domain.ValidateDateRange(input.From, input.To); err != nil {
		return nil, err
	}

	client, err := uc.clients.FetchClient(ctx, input.Client)
	if err != nil {
		uc.record("client_error")
		if errors.Is(err, domain.ErrClientNotFound) || errors.Is(err, domain.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	accounts, err := loadAccountsWithMovements(ctx, uc.accountRepo, uc.movementRepo, client.ClientID, input.From, input.To)
	if err != nil {
		uc.record("error")
		return nil, err
	}

	rows := domain.BuildReport(*client, accounts)

	uc.record("success")
	if uc.metrics != nil {
		uc.metrics.ReportRows.Observe(float64(len(rows)))
	}

	zerolog.Ctx(ctx).Debug().
		Int64("client_id", client.ClientID).
		Int("accounts", len(accounts)).
		Int("rows", len(rows)).
		Msg("report generated")

	return rows, nil
}

// ReportByClientID generates a statement for a client id.
func (uc *ReportUseCase) ReportByClientID(ctx context.Context, clientID int64, from, to *time.Time) ([]domain.ReportRow, error) {
	return uc.GenerateReport(ctx, ReportInput{Client: domain.ClientRefByID(clientID), From: from, To: to})
}

// ReportByIdentification generates a statement for a person's identification.
func (uc *ReportUseCase) ReportByIdentification(ctx context.Context, identification string, from, to *time.Time) ([]domain.ReportRow, error) {
	return uc.GenerateReport(ctx, ReportInput{Client: domain.ClientRefByIdentification(identification), From: from, To: to})
}

func (uc *ReportUseCase) record(status string) {
	if uc.metrics != nil {
		uc.metrics.ReportsGenerated.WithLabelValues(status).Inc()
	}
}
