package auth

import (
	"context"
	"testing"

	"github.com/ericogr/kids-games/internal/game"
)

func TestHasCapability(t *testing.T) {
	cases := []struct {
		role game.Role
		cap  Capability
		want bool
	}{
		{game.RoleAdministrator, CapManageOptions, true},
		{game.RoleAdministrator, CapEditGame, true},
		{game.RoleEditor, CapManageOptions, false},
		{game.RoleEditor, CapEditGame, true},
		{game.RoleEditor, CapUploadFiles, true},
		{game.RoleSubscriber, CapEditGame, false},
		{"", CapEditGame, false},
	}
	for _, tc := range cases {
		p := Principal{Email: "x@example.com", Role: tc.role}
		if got := HasCapability(p, tc.cap, 1); got != tc.want {
			t.Errorf("%s/%s: got %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
	if HasCapability(Principal{Role: game.RoleAdministrator}, CapManageOptions, 0) {
		t.Errorf("anonymous principal must have no capabilities")
	}
}

func TestRoleForEmail(t *testing.T) {
	admins := []string{"root@example.com"}
	editors := []string{"ed@example.com", "root@example.com"}
	if r := RoleForEmail("root@example.com", admins, editors); r != game.RoleAdministrator {
		t.Fatalf("expected administrator, got %s", r)
	}
	if r := RoleForEmail("ed@example.com", admins, editors); r != game.RoleEditor {
		t.Fatalf("expected editor, got %s", r)
	}
	if r := RoleForEmail("someone@example.com", admins, editors); r != game.RoleSubscriber {
		t.Fatalf("expected subscriber, got %s", r)
	}
}

func TestPrincipalContext(t *testing.T) {
	if p := PrincipalFromContext(context.Background()); !p.Anonymous() {
		t.Fatalf("expected anonymous principal")
	}
	p := Principal{Email: "a@example.com"}
	if got := PrincipalFromContext(WithPrincipal(context.Background(), p)); got != p {
		t.Fatalf("got %+v", got)
	}
}
