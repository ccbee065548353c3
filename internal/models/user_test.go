package models

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"owner role", RoleOwner, true},
		{"renter role", RoleRenter, true},
		{"invalid role", "manager", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRole(tt.role); got != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, got, tt.expected)
			}
		})
	}
}

func TestUser_CanListVehicles(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"owner can list", RoleOwner, true},
		{"admin can list", RoleAdmin, true},
		{"renter cannot list", RoleRenter, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.CanListVehicles(); got != tt.expected {
				t.Errorf("CanListVehicles() with role %s = %v, want %v", tt.role, got, tt.expected)
			}
		})
	}
}

func TestUser_Snapshot(t *testing.T) {
	u := &User{Username: "ravi", Email: "ravi@example.com", Tel: "9999999999"}
	snap := u.Snapshot()

	u.Email = "changed@example.com"

	if snap.Username != "ravi" || snap.Email != "ravi@example.com" || snap.Tel != "9999999999" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
