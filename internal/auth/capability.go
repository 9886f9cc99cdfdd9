package auth

import (
	"context"

	"github.com/ericogr/kids-games/internal/game"
)

// Capability names a permission checked before a write.
type Capability string

const (
	CapManageOptions Capability = "manage_options"
	CapEditGame      Capability = "edit_game"
	CapUploadFiles   Capability = "upload_files"
)

var roleCapabilities = map[game.Role]map[Capability]bool{
	game.RoleAdministrator: {CapManageOptions: true, CapEditGame: true, CapUploadFiles: true},
	game.RoleEditor:        {CapEditGame: true, CapUploadFiles: true},
	game.RoleSubscriber:    {},
}

// Principal is the actor behind a request. The zero value is anonymous.
type Principal struct {
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  game.Role `json:"role"`
}

// Anonymous reports whether no one is signed in.
func (p Principal) Anonymous() bool {
	return p.Email == ""
}

// String is used in log fields.
func (p Principal) String() string {
	if p.Anonymous() {
		return "anonymous"
	}
	return p.Email
}

// HasCapability reports whether p may perform c. target identifies the
// object being modified (a game id) and is 0 for global capabilities;
// every game is editable by any holder of edit_game.
func HasCapability(p Principal, c Capability, target uint) bool {
	if p.Anonymous() {
		return false
	}
	return roleCapabilities[p.Role][c]
}

// RoleForEmail maps an email to a role using the configured allow lists.
func RoleForEmail(email string, admins, editors []string) game.Role {
	for _, a := range admins {
		if a == email {
			return game.RoleAdministrator
		}
	}
	for _, e := range editors {
		if e == email {
			return game.RoleEditor
		}
	}
	return game.RoleSubscriber
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the actor stored in ctx, or an anonymous
// principal.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}
