package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type contact struct {
	Pincode string  `validate:"omitempty,pincode"`
	Phone   *string `validate:"omitempty,phone"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	Register(v)

	phone := func(s string) *string { return &s }

	tests := []struct {
		name  string
		in    contact
		valid bool
	}{
		{"empty is allowed", contact{}, true},
		{"pincode", contact{Pincode: "560001"}, true},
		{"pincode leading zero", contact{Pincode: "060001"}, false},
		{"pincode short", contact{Pincode: "56001"}, false},
		{"pincode letters", contact{Pincode: "56A001"}, false},
		{"phone with plus", contact{Phone: phone("+919876543210")}, true},
		{"phone digits", contact{Phone: phone("9876543")}, true},
		{"phone too short", contact{Phone: phone("12345")}, false},
		{"phone with spaces", contact{Phone: phone("98765 43210")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterRulesIsIdempotent(t *testing.T) {
	RegisterRules()
	RegisterRules()
}
