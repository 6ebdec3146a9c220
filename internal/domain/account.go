package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product kind of an account.
type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

// ParseAccountType parses s case-insensitively.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
	return t, nil
}

// Account is a bank account owned by a client.
//
// Number is the natural key and the only reference movements carry.
// CurrentBalance is only changed by the movement use case, always together
// with the movement row that explains the change.
type Account struct {
	ID             int64
	Number         string
	Type           AccountType
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Active         bool
	ClientID       int64
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountFilter narrows account listings. Nil fields match everything.
type AccountFilter struct {
	ClientID *int64
	Active   *bool
}

// Matches reports whether the account satisfies the filter.
func (f AccountFilter) Matches(a *Account) bool {
	if f.ClientID != nil && a.ClientID != *f.ClientID {
		return false
	}
	if f.Active != nil && a.Active != *f.Active {
		return false
	}
	return true
}

// ValidateDebit checks the balance can cover amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.CurrentBalance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.CurrentBalance.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Add(amount)
}

// ApplyMovement computes the balance after a movement of the given type and
// absolute amount. Debits that would overdraw the account are rejected.
func (a *Account) ApplyMovement(t MovementType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch t {
	case MovementTypeCredit:
		return a.ApplyCredit(amount), nil
	case MovementTypeDebit:
		if err := a.ValidateDebit(amount); err != nil {
			return decimal.Zero, err
		}
		return a.ApplyDebit(amount), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidMovementType, t)
	}
}

// RevertMovement computes the balance after undoing m. There is no floor:
// reverting a credit may leave the account negative.
func (a *Account) RevertMovement(m *Movement) decimal.Decimal {
	if m.Type == MovementTypeCredit {
		return a.ApplyDebit(m.Amount)
	}
	return a.ApplyCredit(m.Amount)
}
