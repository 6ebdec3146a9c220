package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type clientServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error)
	getFn        func(ctx context.Context, id int64) (*domain.Client, error)
	getByIdentFn func(ctx context.Context, identification string) (*domain.Client, error)
	listFn       func(ctx context.Context, active *bool) ([]*domain.Client, error)
	updateFn     func(ctx context.Context, input usecase.UpdateClientInput) (*domain.Client, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (s *clientServiceStub) CreateClient(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error) {
	return s.createFn(ctx, input)
}

func (s *clientServiceStub) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.getFn(ctx, id)
}

func (s *clientServiceStub) GetClientByIdentification(ctx context.Context, identification string) (*domain.Client, error) {
	return s.getByIdentFn(ctx, identification)
}

func (s *clientServiceStub) ListClients(ctx context.Context, active *bool) ([]*domain.Client, error) {
	return s.listFn(ctx, active)
}

func (s *clientServiceStub) UpdateClient(ctx context.Context, input usecase.UpdateClientInput) (*domain.Client, error) {
	return s.updateFn(ctx, input)
}

func (s *clientServiceStub) DeleteClient(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func sampleClient() *domain.Client {
	return &domain.Client{
		ID: 1,
		Person: domain.Person{
			Identification: "1234567890",
			Name:           "Jose Lema",
			Gender:         domain.GenderMale,
			Address:        "Otavalo sn y principal",
			Phone:          "098254785",
		},
		Active: true,
	}
}

func TestClientHandler_Create(t *testing.T) {
	var captured usecase.CreateClientInput
	handler := NewClientHandler(&clientServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateClientInput) (*domain.Client, error) {
			captured = input
			return sampleClient(), nil
		},
	})

	body := []byte(`{"persona":{"identification":"1234567890","name":"Jose Lema","gender":"M","address":"Otavalo sn y principal","phone":"098254785"},"password":"1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Person.Name != "Jose Lema" || captured.Password != "1234" {
		t.Fatalf("unexpected input passed to use case: %+v", captured)
	}

	var resp dto.ClientResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ClientID != 1 || resp.Persona.Identification != "1234567890" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("password")) {
		t.Fatal("response must not carry the password")
	}
}

func TestClientHandler_CreateValidation(t *testing.T) {
	handler := NewClientHandler(&clientServiceStub{})

	body := []byte(`{"persona":{"identification":"1234567890","gender":"X"},"password":"1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if _, ok := resp.ValidationErrors["persona.name"]; !ok {
		t.Fatalf("expected persona.name error, got %+v", resp.ValidationErrors)
	}
	if _, ok := resp.ValidationErrors["persona.gender"]; !ok {
		t.Fatalf("expected persona.gender error, got %+v", resp.ValidationErrors)
	}
}

func TestClientHandler_Lookup(t *testing.T) {
	handler := NewClientHandler(&clientServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Client, error) {
			if id == 1 {
				return sampleClient(), nil
			}
			return nil, domain.ErrClientNotFound
		},
		getByIdentFn: func(ctx context.Context, identification string) (*domain.Client, error) {
			if identification == "1234567890" {
				return sampleClient(), nil
			}
			return nil, domain.ErrClientNotFound
		},
		listFn: func(ctx context.Context, active *bool) ([]*domain.Client, error) {
			if active == nil || *active {
				t.Fatalf("expected active=false filter, got %v", active)
			}
			return []*domain.Client{}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/clients/2", nil), map[string]string{"id": "2"})
	rr := httptest.NewRecorder()
	handler.Get(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/clients/identification/1234567890", nil),
		map[string]string{"identification": "1234567890"})
	rr = httptest.NewRecorder()
	handler.GetByIdentification(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/clients?active=false", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := bytes.TrimSpace(rr.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", got)
	}
}

func TestClientHandler_UpdateAndDelete(t *testing.T) {
	var captured usecase.UpdateClientInput
	handler := NewClientHandler(&clientServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateClientInput) (*domain.Client, error) {
			captured = input
			c := sampleClient()
			c.Person.Address = *input.Person.Address
			return c, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			return domain.ErrClientNotFound
		},
	})

	body := []byte(`{"persona":{"address":"13 junio y Equinoccial"}}`)
	req := withURLParams(httptest.NewRequest(http.MethodPut, "/clients/1", bytes.NewReader(body)), map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	handler.Update(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.ID != 1 || captured.Person.Name != nil || captured.Password != nil {
		t.Fatalf("only the address must be patched, got %+v", captured)
	}

	req = withURLParams(httptest.NewRequest(http.MethodDelete, "/clients/9", nil), map[string]string{"id": "9"})
	rr = httptest.NewRecorder()
	handler.Delete(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
