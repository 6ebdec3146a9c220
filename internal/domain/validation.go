package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidAccountNumber = fmt.Errorf("%w: invalid account number", ErrInvalidInput)
	ErrInvalidAccountType   = fmt.Errorf("%w: account type must be SAVINGS or CHECKING", ErrInvalidInput)
	ErrInvalidBalance       = fmt.Errorf("%w: initial balance must be zero or positive", ErrInvalidInput)
	ErrInvalidClientID      = fmt.Errorf("%w: client id must be positive", ErrInvalidInput)
	ErrInvalidDateRange     = fmt.Errorf("%w: start date must not be after end date", ErrInvalidInput)
	ErrInvalidPerson        = fmt.Errorf("%w: invalid person", ErrInvalidInput)
	ErrInvalidPassword      = fmt.Errorf("%w: invalid password", ErrInvalidInput)
	ErrAmountTooLarge       = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidInput)
	ErrAmountScale          = fmt.Errorf("%w: amount must have at most %d decimal places", ErrInvalidInput, AmountScale)
)

// Validation constants
const (
	MaxAccountNumberLength  = 30
	MaxDescriptionLength    = 255
	MaxIdentificationLength = 20
	MaxNameLength           = 255
	MaxAddressLength        = 500
	MaxPasswordLength       = 255
	MaxMovementAmount       = "9999999999999.99" // numeric(15,2)
	AmountScale             = 2
)

var phoneRegex = regexp.MustCompile(`^[0-9-]{10,15}$`)

// ValidateAccountNumber validates an account number.
func ValidateAccountNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return fmt.Errorf("%w: must not be blank", ErrInvalidAccountNumber)
	}
	if len(number) > MaxAccountNumberLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidAccountNumber, MaxAccountNumberLength)
	}
	return nil
}

// ValidateInitialBalance validates an opening balance.
func ValidateInitialBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return ErrInvalidBalance
	}
	return nil
}

// NormalizeAmount validates a movement amount and returns its absolute value.
// Zero and amounts finer than AmountScale are always rejected. Negative input
// is rejected only when rejectNegative is set; otherwise its sign is dropped.
func NormalizeAmount(amount decimal.Decimal, rejectNegative bool) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.IsNegative() && rejectNegative {
		return decimal.Zero, ErrNegativeAmount
	}

	abs := amount.Abs()
	if !abs.Equal(abs.Truncate(AmountScale)) {
		return decimal.Zero, ErrAmountScale
	}
	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if abs.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}
	return abs.Round(AmountScale), nil
}

// ValidateDescription validates a movement description.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxDescriptionLength)
	}
	return nil
}

// ValidateDateRange checks from is not after to when both are set.
func ValidateDateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidatePassword validates a client password.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: must not be blank", ErrInvalidPassword)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidPassword, MaxPasswordLength)
	}
	return nil
}

// ValidatePerson validates a person's attributes.
func ValidatePerson(p Person) error {
	id := strings.TrimSpace(p.Identification)
	switch {
	case id == "":
		return fmt.Errorf("%w: identification is required", ErrInvalidPerson)
	case utf8.RuneCountInString(id) > MaxIdentificationLength:
		return fmt.Errorf("%w: identification exceeds %d characters", ErrInvalidPerson, MaxIdentificationLength)
	}

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPerson)
	case utf8.RuneCountInString(name) > MaxNameLength:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPerson, MaxNameLength)
	}

	if p.Gender != "" && !p.Gender.IsValid() {
		return fmt.Errorf("%w: gender must be M or F", ErrInvalidPerson)
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidPerson)
	}
	if utf8.RuneCountInString(p.Address) > MaxAddressLength {
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidPerson, MaxAddressLength)
	}
	if p.Phone != "" && !phoneRegex.MatchString(p.Phone) {
		return fmt.Errorf("%w: phone must be 10 to 15 digits or dashes", ErrInvalidPerson)
	}

	return nil
}
