package domain

import (
	"strconv"
	"time"
)

// Gender is a person's declared gender.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// IsValid reports whether g is M or F.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Person holds the identity attributes of a client. It is a value: changes
// produce a new Person via Merge.
type Person struct {
	Identification string
	Name           string
	Gender         Gender
	Age            *int
	Address        string
	Phone          string
}

// PersonPatch carries the fields of a partial person update. Nil fields are
// left untouched.
type PersonPatch struct {
	Identification *string
	Name           *string
	Gender         *Gender
	Age            *int
	Address        *string
	Phone          *string
}

// Merge returns p with the non-nil fields of patch applied. The
// identification can only be set while it is still empty.
func (p Person) Merge(patch PersonPatch) Person {
	if patch.Identification != nil && p.Identification == "" {
		p.Identification = *patch.Identification
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Age != nil {
		age := *patch.Age
		p.Age = &age
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	return p
}

// Client is a bank customer.
type Client struct {
	ID           int64
	Person       Person
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the projection other services are allowed to see.
func (c Client) Identity() ClientIdentity {
	return ClientIdentity{
		ClientID:       c.ID,
		Identification: c.Person.Identification,
		Name:           c.Person.Name,
		Active:         c.Active,
	}
}

// ClientIdentity is the read-only view of a client used for reporting.
type ClientIdentity struct {
	ClientID       int64
	Identification string
	Name           string
	Active         bool
}

// ClientRef identifies a client either by id or by identification.
type ClientRef struct {
	ID             int64
	Identification string
}

// ClientRefByID returns a reference by client id.
func ClientRefByID(id int64) ClientRef {
	return ClientRef{ID: id}
}

// ClientRefByIdentification returns a reference by identification.
func ClientRefByIdentification(identification string) ClientRef {
	return ClientRef{Identification: identification}
}

// String renders the reference for logs and cache keys.
func (r ClientRef) String() string {
	if r.Identification != "" {
		return "identification:" + r.Identification
	}
	return "id:" + strconv.FormatInt(r.ID, 10)
}
