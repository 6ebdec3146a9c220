package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType is the direction of a movement.
type MovementType string

const (
	MovementTypeCredit MovementType = "CREDIT"
	MovementTypeDebit  MovementType = "DEBIT"
)

// IsValid reports whether t is CREDIT or DEBIT.
func (t MovementType) IsValid() bool {
	return t == MovementTypeCredit || t == MovementTypeDebit
}

// ParseMovementType parses s case-insensitively.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMovementType, s)
	}
	return t, nil
}

// Movement is a single credit or debit against an account.
// Amount is always stored as an absolute value; Type carries the sign.
type Movement struct {
	ID               int64
	AccountNumber    string
	Timestamp        time.Time
	Type             MovementType
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	Description      string
	CreatedAt        time.Time
}

// SignedAmount returns Amount for credits and -Amount for debits.
func (m *Movement) SignedAmount() decimal.Decimal {
	if m.Type == MovementTypeDebit {
		return m.Amount.Neg()
	}
	return m.Amount
}

// MovementFilter narrows movement listings. Zero-valued fields match everything.
// From and To are inclusive bounds on Timestamp.
type MovementFilter struct {
	AccountNumbers []string
	Type           MovementType
	From           *time.Time
	To             *time.Time
}

// Matches reports whether the movement satisfies the filter.
func (f MovementFilter) Matches(m *Movement) bool {
	if len(f.AccountNumbers) > 0 {
		found := false
		for _, n := range f.AccountNumbers {
			if n == m.AccountNumber {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.From != nil && m.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// AccountWithMovements pairs an account with the movements selected for it.
type AccountWithMovements struct {
	Account   *Account
	Movements []*Movement
}
