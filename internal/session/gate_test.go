package session

import (
	"testing"

	"coinwatch/internal/api"
	"coinwatch/internal/auth"
)

func TestGate_AdmitsWithToken(t *testing.T) {
	tokens := auth.NewMemoryTokenStore()
	tokens.Set("A.B.C")

	var routes []string
	gate := NewGate(tokens, api.NavigatorFunc(func(r string) { routes = append(routes, r) }))

	if !gate.Admit() {
		t.Error("gate must admit when a token is present")
	}
	if len(routes) != 0 {
		t.Errorf("no navigation expected, got %v", routes)
	}
}

func TestGate_RedirectsWithoutToken(t *testing.T) {
	var routes []string
	gate := NewGate(auth.NewMemoryTokenStore(), api.NavigatorFunc(func(r string) { routes = append(routes, r) }))

	if gate.Admit() {
		t.Error("gate must reject without a token")
	}
	if len(routes) != 1 || routes[0] != api.LoginRoute {
		t.Errorf("expected one redirect to %s, got %v", api.LoginRoute, routes)
	}
}

func TestGate_NilNavigator(t *testing.T) {
	gate := NewGate(auth.NewMemoryTokenStore(), nil)
	if gate.Admit() {
		t.Error("gate must reject without a token")
	}
}
