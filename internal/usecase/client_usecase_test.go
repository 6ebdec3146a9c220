package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobank/internal/adapter/repository/memory"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func newClientUseCase() (*usecase.ClientUseCase, *memory.ClientRepository) {
	repo := memory.NewClientRepository(memory.NewStore())
	return usecase.NewClientUseCase(repo, nil, bcrypt.MinCost), repo
}

func joseLema() domain.Person {
	age := 35
	return domain.Person{
		Identification: "1234567890",
		Name:           "Jose Lema",
		Gender:         domain.GenderMale,
		Age:            &age,
		Address:        "Otavalo sn y principal",
		Phone:          "0982547850",
	}
}

func TestClientUseCase_CreateClient(t *testing.T) {
	uc, repo := newClientUseCase()
	ctx := context.Background()

	person := joseLema()

	client, err := uc.CreateClient(ctx, usecase.CreateClientInput{Person: person, Password: "1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ID == 0 {
		t.Error("expected client ID to be assigned")
	}
	if client.PasswordHash != "" {
		t.Error("password hash must not be returned")
	}
	if !client.Active {
		t.Error("expected client to default to active")
	}

	stored, err := repo.GetByID(ctx, client.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := usecase.VerifyPassword(stored.PasswordHash, "1234"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	_, err = uc.CreateClient(ctx, usecase.CreateClientInput{Person: person, Password: "1234"})
	if !errors.Is(err, domain.ErrDuplicateClient) {
		t.Errorf("expected ErrDuplicateClient, got %v", err)
	}
}

func TestClientUseCase_CreateClientValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *domain.Person)
		password string
	}{
		{name: "missing identification", mutate: func(p *domain.Person) { p.Identification = " " }, password: "1234"},
		{name: "missing name", mutate: func(p *domain.Person) { p.Name = "" }, password: "1234"},
		{name: "bad gender", mutate: func(p *domain.Person) { p.Gender = "X" }, password: "1234"},
		{name: "bad phone", mutate: func(p *domain.Person) { p.Phone = "abc" }, password: "1234"},
		{name: "empty password", mutate: func(p *domain.Person) {}, password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newClientUseCase()

			person := joseLema()
			tt.mutate(&person)

			_, err := uc.CreateClient(context.Background(), usecase.CreateClientInput{Person: person, Password: tt.password})
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestClientUseCase_UpdateClient(t *testing.T) {
	uc, repo := newClientUseCase()
	ctx := context.Background()

	person := joseLema()
	created, err := uc.CreateClient(ctx, usecase.CreateClientInput{Person: person, Password: "1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	address := "13 junio y Equinoccial"
	password := "5678"
	inactive := false
	updated, err := uc.UpdateClient(ctx, usecase.UpdateClientInput{
		ID:       created.ID,
		Person:   domain.PersonPatch{Address: &address},
		Password: &password,
		Active:   &inactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Person.Address != address {
		t.Errorf("expected address %q, got %q", address, updated.Person.Address)
	}
	if updated.Person.Name != "Jose Lema" {
		t.Errorf("untouched fields must survive, got name %q", updated.Person.Name)
	}
	if updated.Active {
		t.Error("expected client to be inactive")
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := usecase.VerifyPassword(stored.PasswordHash, "5678"); err != nil {
		t.Errorf("password was not rehashed: %v", err)
	}

	if _, err := uc.UpdateClient(ctx, usecase.UpdateClientInput{ID: 404}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientUseCase_ListAndDelete(t *testing.T) {
	uc, _ := newClientUseCase()
	ctx := context.Background()

	person := joseLema()
	inactive := false
	created, err := uc.CreateClient(ctx, usecase.CreateClientInput{Person: person, Password: "1234", Active: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := true
	list, err := uc.ListClients(ctx, &active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no active clients, got %d", len(list))
	}

	byID, err := uc.GetClientByIdentification(ctx, " 1234567890 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.ID != created.ID || byID.PasswordHash != "" {
		t.Errorf("unexpected client %+v", byID)
	}

	if err := uc.DeleteClient(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.GetClient(ctx, created.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientUseCase_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockClientRepository(ctrl)
	repo.EXPECT().GetByIdentification(gomock.Any(), "1234567890").Return(nil, errors.New("connection refused"))

	uc := usecase.NewClientUseCase(repo, nil, bcrypt.MinCost)

	person := joseLema()
	_, err := uc.CreateClient(context.Background(), usecase.CreateClientInput{Person: person, Password: "1234"})
	if err == nil || errors.Is(err, domain.ErrDuplicateClient) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
