package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	AccountNumber  string           `json:"accountNumber"  validate:"required,max=30"`
	Type           string           `json:"type"           validate:"required"`
	InitialBalance *decimal.Decimal `json:"initialBalance" validate:"required"`
	ClientID       int64            `json:"clientId"       validate:"required,gt=0"`
}

// ToUseCaseInput converts to use case input. Call it only after Validate.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	input := usecase.CreateAccountInput{
		Number:   r.AccountNumber,
		Type:     domain.AccountType(r.Type),
		ClientID: r.ClientID,
	}
	if r.InitialBalance != nil {
		input.InitialBalance = *r.InitialBalance
	}
	return input
}

// UpdateAccountRequest changes the status of an account.
type UpdateAccountRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// CreateMovementRequest represents a request to record a movement.
type CreateMovementRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required"`
	Type          string          `json:"type"          validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"   validate:"max=255"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMovementRequest) ToUseCaseInput() usecase.CreateMovementInput {
	return usecase.CreateMovementInput{
		AccountNumber: r.AccountNumber,
		Type:          domain.MovementType(r.Type),
		Amount:        r.Amount,
		Description:   r.Description,
	}
}

// UpdateMovementRequest changes the description of a movement.
type UpdateMovementRequest struct {
	Description *string `json:"description" validate:"required,max=255"`
}

// PersonRequest carries the person fields of a client.
type PersonRequest struct {
	Identification string `json:"identification" validate:"required,max=20"`
	Name           string `json:"name"           validate:"required,max=100"`
	Gender         string `json:"gender"         validate:"omitempty,oneof=M F"`
	Age            *int   `json:"age"            validate:"omitempty,gte=0,lte=150"`
	Address        string `json:"address"        validate:"max=200"`
	Phone          string `json:"phone"          validate:"max=20"`
}

// CreateClientRequest represents a request to register a client.
type CreateClientRequest struct {
	Persona  PersonRequest `json:"persona"`
	Password string        `json:"password" validate:"required,min=4,max=72"`
	Active   *bool         `json:"active"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateClientRequest) ToUseCaseInput() usecase.CreateClientInput {
	return usecase.CreateClientInput{
		Person: domain.Person{
			Identification: r.Persona.Identification,
			Name:           r.Persona.Name,
			Gender:         domain.Gender(r.Persona.Gender),
			Age:            r.Persona.Age,
			Address:        r.Persona.Address,
			Phone:          r.Persona.Phone,
		},
		Password: r.Password,
		Active:   r.Active,
	}
}

// PersonPatchRequest carries the person fields of a partial update.
type PersonPatchRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,max=100"`
	Gender  *string `json:"gender"  validate:"omitempty,oneof=M F"`
	Age     *int    `json:"age"     validate:"omitempty,gte=0,lte=150"`
	Address *string `json:"address" validate:"omitempty,max=200"`
	Phone   *string `json:"phone"   validate:"omitempty,max=20"`
}

// UpdateClientRequest represents a client update. Absent fields are kept.
type UpdateClientRequest struct {
	Persona  *PersonPatchRequest `json:"persona"`
	Password *string             `json:"password" validate:"omitempty,min=4,max=72"`
	Active   *bool               `json:"active"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateClientRequest) ToUseCaseInput(id int64) usecase.UpdateClientInput {
	input := usecase.UpdateClientInput{
		ID:       id,
		Password: r.Password,
		Active:   r.Active,
	}
	if p := r.Persona; p != nil {
		input.Person = domain.PersonPatch{
			Name:    p.Name,
			Age:     p.Age,
			Address: p.Address,
			Phone:   p.Phone,
		}
		if p.Gender != nil {
			g := domain.Gender(*p.Gender)
			input.Person.Gender = &g
		}
	}
	return input
}
