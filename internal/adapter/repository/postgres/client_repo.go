package postgres

import (
	"context"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	queries *generated.Queries
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db generated.DBTX) *ClientRepository {
	return &ClientRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new client and sets its ID.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	row, err := r.queries.CreateClient(ctx, generated.CreateClientParams{
		Identification: client.Person.Identification,
		Name:           client.Person.Name,
		Gender:         optionalText(string(client.Person.Gender)),
		Age:            optionalInt4(client.Person.Age),
		Address:        client.Person.Address,
		Phone:          client.Person.Phone,
		PasswordHash:   client.PasswordHash,
		Active:         client.Active,
		CreatedAt:      timeToPgTimestamptz(client.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(client.UpdatedAt),
	})
	if err != nil {
		return translateError(err, nil, domain.ErrDuplicateClient)
	}

	client.ID = row.ID

	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	row, err := r.queries.GetClientByID(ctx, id)
	if err != nil {
		return nil, translateError(err, domain.ErrClientNotFound, nil)
	}

	return rowToClient(row), nil
}

// GetByIdentification retrieves a client by identification.
func (r *ClientRepository) GetByIdentification(ctx context.Context, identification string) (*domain.Client, error) {
	row, err := r.queries.GetClientByIdentification(ctx, identification)
	if err != nil {
		return nil, translateError(err, domain.ErrClientNotFound, nil)
	}

	return rowToClient(row), nil
}

// List lists clients ordered by ID, optionally filtered by status.
func (r *ClientRepository) List(ctx context.Context, active *bool) ([]*domain.Client, error) {
	rows, err := r.queries.ListClients(ctx, optionalBool(active))
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, rowToClient(row))
	}

	return clients, nil
}

// Update replaces all mutable columns of a client.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	affected, err := r.queries.UpdateClient(ctx, generated.UpdateClientParams{
		ID:             client.ID,
		Identification: client.Person.Identification,
		Name:           client.Person.Name,
		Gender:         optionalText(string(client.Person.Gender)),
		Age:            optionalInt4(client.Person.Age),
		Address:        client.Person.Address,
		Phone:          client.Person.Phone,
		PasswordHash:   client.PasswordHash,
		Active:         client.Active,
		UpdatedAt:      timeToPgTimestamptz(client.UpdatedAt),
	})
	if err != nil {
		return translateError(err, nil, domain.ErrDuplicateClient)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteClient(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func rowToClient(row generated.Client) *domain.Client {
	var age *int
	if row.Age.Valid {
		a := int(row.Age.Int32)
		age = &a
	}

	return &domain.Client{
		ID: row.ID,
		Person: domain.Person{
			Identification: row.Identification,
			Name:           row.Name,
			Gender:         domain.Gender(row.Gender.String),
			Age:            age,
			Address:        row.Address,
			Phone:          row.Phone,
		},
		PasswordHash: row.PasswordHash,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
