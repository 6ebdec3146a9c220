package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// ClientUseCase handles client management operations
type ClientUseCase struct {
	clientRepo ClientRepository
	metrics    *metrics.Metrics
	bcryptCost int
}

// NewClientUseCase creates a new client use case.
// A bcryptCost of zero selects bcrypt.DefaultCost.
func NewClientUseCase(clientRepo ClientRepository, metrics *metrics.Metrics, bcryptCost int) *ClientUseCase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ClientUseCase{
		clientRepo: clientRepo,
		metrics:    metrics,
		bcryptCost: bcryptCost,
	}
}

// CreateClientInput represents input for creating a client
type CreateClientInput struct {
	Person   domain.Person
	Password string
	Active   *bool
}

// CreateClient registers a new client with a hashed password
func (uc *ClientUseCase) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	person := input.Person
	person.Identification = strings.TrimSpace(person.Identification)
	person.Name = strings.TrimSpace(person.Name)

	if err := domain.ValidatePerson(person); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// Check if client already exists
	if _, err := uc.clientRepo.GetByIdentification(ctx, person.Identification); err == nil {
		return nil, domain.ErrDuplicateClient
	} else if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, err
	}

	hashedPassword, err := uc.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	client := &domain.Client{
		Person:       person,
		PasswordHash: hashedPassword,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ClientsCreated.Inc()
	}

	return withoutPassword(client), nil
}

// GetClient retrieves a client by ID
func (uc *ClientUseCase) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withoutPassword(client), nil
}

// GetClientByIdentification retrieves a client by the person's identification
func (uc *ClientUseCase) GetClientByIdentification(ctx context.Context, identification string) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByIdentification(ctx, strings.TrimSpace(identification))
	if err != nil {
		return nil, err
	}
	return withoutPassword(client), nil
}

// ListClients lists clients, optionally filtered by status
func (uc *ClientUseCase) ListClients(ctx context.Context, active *bool) ([]*domain.Client, error) {
	clients, err := uc.clientRepo.List(ctx, active)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		result = append(result, withoutPassword(c))
	}
	return result, nil
}

// UpdateClientInput represents a partial client update. Nil fields are left untouched.
type UpdateClientInput struct {
	ID       int64
	Person   domain.PersonPatch
	Password *string
	Active   *bool
}

// UpdateClient applies a partial update to a client
func (uc *ClientUseCase) UpdateClient(ctx context.Context, input UpdateClientInput) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	person := client.Person.Merge(input.Person)
	if err := domain.ValidatePerson(person); err != nil {
		return nil, err
	}

	updated := *client
	updated.Person = person

	if input.Active != nil {
		updated.Active = *input.Active
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := uc.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hashedPassword
	}

	updated.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := uc.clientRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return withoutPassword(&updated), nil
}

// DeleteClient deletes a client
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id int64) error {
	return uc.clientRepo.Delete(ctx, id)
}

// hashPassword hashes a password using bcrypt
func (uc *ClientUseCase) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func withoutPassword(c *domain.Client) *domain.Client {
	out := *c
	out.PasswordHash = ""
	return &out
}
