package memory

import (
	"context"
	"sort"

	"github.com/iho/gobank/internal/domain"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	store *Store
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(store *Store) *ClientRepository {
	return &ClientRepository{store: store}
}

// Create stores a new client and assigns its ID.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.identificationTaken(client.Person.Identification, 0) {
		return domain.ErrDuplicateClient
	}

	r.store.nextClientID++
	client.ID = r.store.nextClientID
	r.store.clients[client.ID] = copyClient(client)

	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return copyClient(c), nil
}

// GetByIdentification retrieves a client by identification.
func (r *ClientRepository) GetByIdentification(ctx context.Context, identification string) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.clients {
		if c.Person.Identification == identification {
			return copyClient(c), nil
		}
	}
	return nil, domain.ErrClientNotFound
}

// List lists clients ordered by ID, optionally filtered by status.
func (r *ClientRepository) List(ctx context.Context, active *bool) ([]*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clients := make([]*domain.Client, 0)
	for _, c := range r.store.clients {
		if active != nil && c.Active != *active {
			continue
		}
		clients = append(clients, copyClient(c))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })

	return clients, nil
}

// Update replaces a stored client.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[client.ID]; !ok {
		return domain.ErrClientNotFound
	}
	if r.identificationTaken(client.Person.Identification, client.ID) {
		return domain.ErrDuplicateClient
	}

	r.store.clients[client.ID] = copyClient(client)
	return nil
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.store.clients, id)
	return nil
}

// identificationTaken must be called with the store mutex held.
func (r *ClientRepository) identificationTaken(identification string, exceptID int64) bool {
	for id, c := range r.store.clients {
		if id != exceptID && c.Person.Identification == identification {
			return true
		}
	}
	return false
}
