package scaffold

import (
	"errors"
	"testing"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		input  string
		key    string
		plural string
		studly string
	}{
		{"Admin", "admin", "admins", "Admin"},
		{"customer", "customer", "customers", "Customer"},
		{"  Customer  ", "customer", "customers", "Customer"},
		{"admins", "admins", "admins", "Admin"},
		{"Super Admin", "super_admin", "super_admins", "SuperAdmin"},
		{"super-admin", "super_admin", "super_admins", "SuperAdmin"},
		{"super__admin", "super_admin", "super_admins", "SuperAdmin"},
		{"company", "company", "companies", "Company"},
		{"people", "people", "people", "Person"},
		{"agent2", "agent2", "agent2", "Agent2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ids, err := Derive(tt.input)
			if err != nil {
				t.Fatalf("Derive(%q) error = %v", tt.input, err)
			}
			if ids.LowerKey != tt.key {
				t.Errorf("LowerKey = %q, want %q", ids.LowerKey, tt.key)
			}
			if ids.TableNameSnake != tt.key {
				t.Errorf("TableNameSnake = %q, want %q", ids.TableNameSnake, tt.key)
			}
			if ids.TableNamePlural != tt.plural {
				t.Errorf("TableNamePlural = %q, want %q", ids.TableNamePlural, tt.plural)
			}
			if ids.ProviderKey != tt.plural {
				t.Errorf("ProviderKey = %q, want %q", ids.ProviderKey, tt.plural)
			}
			if ids.StudlyClass != tt.studly {
				t.Errorf("StudlyClass = %q, want %q", ids.StudlyClass, tt.studly)
			}
			if ids.MiddlewareClass != tt.studly+"AuthMiddleware" {
				t.Errorf("MiddlewareClass = %q", ids.MiddlewareClass)
			}
			if ids.ControllerClass != tt.studly+"AuthController" {
				t.Errorf("ControllerClass = %q", ids.ControllerClass)
			}
			if ids.AliasKey != tt.key+".auth" {
				t.Errorf("AliasKey = %q", ids.AliasKey)
			}
		})
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	for _, input := range []string{"Admin", "Super Admin", "customer-care", "people", "agent2"} {
		first, err := Derive(input)
		if err != nil {
			t.Fatalf("Derive(%q) error = %v", input, err)
		}
		again, err := Derive(input)
		if err != nil {
			t.Fatalf("Derive(%q) error = %v", input, err)
		}
		if first != again {
			t.Errorf("Derive(%q) not deterministic: %+v vs %+v", input, first, again)
		}
		fromKey, err := Derive(first.LowerKey)
		if err != nil {
			t.Fatalf("Derive(%q) error = %v", first.LowerKey, err)
		}
		if fromKey != first {
			t.Errorf("Derive(%q) = %+v, want %+v", first.LowerKey, fromKey, first)
		}
	}
}

func TestDeriveRejectsInvalidNames(t *testing.T) {
	for _, input := range []string{"", "   ", "1admin", "_admin", "admin!", "ädmin", "admin.user"} {
		t.Run(input, func(t *testing.T) {
			_, err := Derive(input)
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("Derive(%q) error = %v, want ErrInvalidName", input, err)
			}
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin", "Admin"},
		{"super_admin", "SuperAdmin"},
		{"super-admin", "SuperAdmin"},
		{"SUPER admin", "SuperAdmin"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ToPascalCase(tt.input); got != tt.want {
			t.Errorf("ToPascalCase(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Admin", "admin"},
		{"Super Admin", "super_admin"},
		{"super - admin", "super_admin"},
		{"SuperAdmin", "superadmin"},
	}

	for _, tt := range tests {
		if got := ToSnakeCase(tt.input); got != tt.want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
