package address

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var numeric, quoted Address
	if err := json.Unmarshal([]byte(`{"id":42}`), &numeric); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"id":"42"}`), &quoted); err != nil {
		t.Fatal(err)
	}
	if numeric.ID != quoted.ID {
		t.Errorf("numeric and string ids should compare equal: %q vs %q", numeric.ID, quoted.ID)
	}
	if numeric.ID.String() != "42" {
		t.Errorf("expected \"42\", got %q", numeric.ID)
	}
}

func TestValidate_Shipping(t *testing.T) {
	a := Address{Title: "Home", AddressLine1: "12 Adeola Odeku", City: "Lagos", Country: "NG"}
	if err := a.Validate(TypeShipping); err != nil {
		t.Fatalf("expected valid shipping address, got %v", err)
	}

	a.Title = ""
	var fieldErr FieldError
	if err := a.Validate(TypeShipping); !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	} else if fieldErr.Field != "title" {
		t.Errorf("expected title error, got %q", fieldErr.Field)
	}
}

func TestValidate_Billing(t *testing.T) {
	a := Address{FullName: "Ada Obi", Email: "ada@example.com", AddressLine1: "5 Marina", City: "Lagos", Country: "NG"}
	if err := a.Validate(TypeBilling); err != nil {
		t.Fatalf("expected valid billing address, got %v", err)
	}

	a.Email = ""
	var fieldErr FieldError
	if err := a.Validate(TypeBilling); !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	} else if fieldErr.Field != "email" {
		t.Errorf("expected email error, got %q", fieldErr.Field)
	}
}

func TestValidate_SharedRequiredFields(t *testing.T) {
	a := Address{Title: "Home", City: "Lagos", Country: "NG"}
	if err := a.Validate(TypeShipping); err == nil {
		t.Error("missing address_line_1 should fail")
	}
}
