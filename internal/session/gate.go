// Package session guards authenticated surfaces behind token presence.
package session

import (
	"coinwatch/internal/api"
	"coinwatch/internal/auth"
)

// Gate admits or redirects based on token presence alone. It does not
// validate the token: the expiration monitor and the HTTP client's 401
// handling provide the runtime guarantee.
type Gate struct {
	tokens    auth.TokenStore
	navigator api.Navigator
}

// NewGate creates a gate over the given token store. navigator receives
// the login route on rejection; nil means reject silently.
func NewGate(tokens auth.TokenStore, navigator api.Navigator) *Gate {
	return &Gate{tokens: tokens, navigator: navigator}
}

// Admit reports whether a protected surface may render. On rejection the
// navigator is sent to the login route.
func (g *Gate) Admit() bool {
	if _, ok := g.tokens.Get(); ok {
		return true
	}
	if g.navigator != nil {
		g.navigator.NavigateTo(api.LoginRoute)
	}
	return false
}
