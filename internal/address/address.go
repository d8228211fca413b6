package address

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("address not found")

// Type distinguishes the two address books the backend keeps.
type Type string

const (
	TypeShipping Type = "shipping"
	TypeBilling  Type = "billing"
)

// ID tolerates the backend returning ids as numbers or strings and
// always presents them as strings, so selection comparisons never hit a
// numeric/string mismatch.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Address is the flat record used for both shipping and billing books;
// required fields differ by type.
type Address struct {
	ID           ID     `json:"id"`
	UserID       string `json:"user_id,omitempty"`
	Title        string `json:"title,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// FieldError is a client-side validation failure tied to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the required fields for the given address type before
// any network call is made.
func (a Address) Validate(t Type) error {
	required := map[string]string{
		"address_line_1": a.AddressLine1,
		"city":           a.City,
		"country":        a.Country,
	}
	switch t {
	case TypeShipping:
		required["title"] = a.Title
	case TypeBilling:
		required["full_name"] = a.FullName
		required["email"] = a.Email
	}
	for field, value := range required {
		if value == "" {
			return FieldError{Field: field, Message: "required"}
		}
	}
	return nil
}
