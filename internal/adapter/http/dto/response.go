package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID      int64           `json:"accountId"`
	AccountNumber  string          `json:"accountNumber"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Active         bool            `json:"active"`
	ClientID       int64           `json:"clientId"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID:      a.ID,
		AccountNumber:  a.Number,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		Active:         a.Active,
		ClientID:       a.ClientID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	MovementID       int64           `json:"movementId"`
	AccountNumber    string          `json:"accountNumber"`
	Date             time.Time       `json:"date"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		MovementID:       m.ID,
		AccountNumber:    m.AccountNumber,
		Date:             m.Timestamp,
		Type:             string(m.Type),
		Amount:           m.Amount,
		ResultingBalance: m.ResultingBalance,
		Description:      m.Description,
		CreatedAt:        m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ReportRowResponse is one line of an account statement.
type ReportRowResponse struct {
	Date             time.Time       `json:"date"`
	ClientID         int64           `json:"clientId"`
	Client           string          `json:"client"`
	Identification   string          `json:"identification"`
	AccountNumber    string          `json:"accountNumber"`
	AccountType      string          `json:"accountType"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	MovementType     string          `json:"movementType"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
}

// ReportFromDomain converts report rows to responses.
func ReportFromDomain(rows []domain.ReportRow) []ReportRowResponse {
	result := make([]ReportRowResponse, len(rows))
	for i, r := range rows {
		result[i] = ReportRowResponse{
			Date:             r.Date,
			ClientID:         r.ClientID,
			Client:           r.Name,
			Identification:   r.Identification,
			AccountNumber:    r.AccountNumber,
			AccountType:      string(r.AccountType),
			InitialBalance:   r.InitialBalance,
			CurrentBalance:   r.CurrentBalance,
			MovementType:     string(r.MovementType),
			Amount:           r.Amount,
			ResultingBalance: r.ResultingBalance,
		}
	}
	return result
}

// PersonResponse carries the person fields of a client.
type PersonResponse struct {
	Identification string `json:"identification"`
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}

// ClientResponse represents a client in API responses. The password hash is
// never exposed.
type ClientResponse struct {
	ClientID  int64          `json:"clientId"`
	Persona   PersonResponse `json:"persona"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ClientFromDomain converts domain client to response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ClientID: c.ID,
		Persona: PersonResponse{
			Identification: c.Person.Identification,
			Name:           c.Person.Name,
			Gender:         string(c.Person.Gender),
			Age:            c.Person.Age,
			Address:        c.Person.Address,
			Phone:          c.Person.Phone,
		},
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// ReconciliationResponse reports whether an account's balance matches its
// movements.
type ReconciliationResponse struct {
	AccountNumber     string          `json:"accountNumber"`
	InitialBalance    decimal.Decimal `json:"initialBalance"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	RecordedBalance   decimal.Decimal `json:"recordedBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	Difference        decimal.Decimal `json:"difference"`
	Reconciled        bool            `json:"reconciled"`
	CheckedAt         time.Time       `json:"checkedAt"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountNumber:     r.AccountNumber,
		InitialBalance:    r.InitialBalance,
		TotalCredits:      r.TotalCredits,
		TotalDebits:       r.TotalDebits,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"totalAccounts"`
	ReconciledAccounts int                       `json:"reconciledAccounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checkedAt"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	out := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		out.Discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return out
}
