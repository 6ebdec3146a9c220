package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one line of an account statement: a single movement joined
// with its account and the owning client.
type ReportRow struct {
	ClientID         int64
	Name             string
	Identification   string
	AccountNumber    string
	AccountType      AccountType
	InitialBalance   decimal.Decimal
	CurrentBalance   decimal.Decimal
	Date             time.Time
	MovementType     MovementType
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	CreatedAt        time.Time
}

// BuildReport flattens accounts and their movements into report rows for
// client. Accounts without movements contribute no rows. Rows are ordered by
// account number, then by movement timestamp.
func BuildReport(client ClientIdentity, accounts []AccountWithMovements) []ReportRow {
	ordered := make([]AccountWithMovements, len(accounts))
	copy(ordered, accounts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Account.Number < ordered[j].Account.Number
	})

	rows := make([]ReportRow, 0)
	for _, am := range ordered {
		movements := make([]*Movement, len(am.Movements))
		copy(movements, am.Movements)
		sort.SliceStable(movements, func(i, j int) bool {
			return movements[i].Timestamp.Before(movements[j].Timestamp)
		})

		for _, m := range movements {
			rows = append(rows, ReportRow{
				ClientID:         client.ClientID,
				Name:             client.Name,
				Identification:   client.Identification,
				AccountNumber:    am.Account.Number,
				AccountType:      am.Account.Type,
				InitialBalance:   am.Account.InitialBalance,
				CurrentBalance:   am.Account.CurrentBalance,
				Date:             m.Timestamp,
				MovementType:     m.Type,
				Amount:           m.Amount,
				ResultingBalance: m.ResultingBalance,
				CreatedAt:        m.CreatedAt,
			})
		}
	}

	return rows
}
