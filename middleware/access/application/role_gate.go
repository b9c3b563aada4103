package application

import (
	"fmt"
	"strings"
	"time"

	"messaging-gateway/middleware/access/domain"
)

const GateRole = "role"

// RoleGate só deixa admin/moderator executarem operações privilegiadas.
type RoleGate struct {
	ProtectedPaths   PathSet
	ProtectedMethods []string
	APIPrefix        string
	PublicWritePaths PathSet
	AllowedRoles     []string
}

func NewRoleGate(cfg Config) *RoleGate {
	return &RoleGate{
		ProtectedPaths:   cfg.ProtectedPaths,
		ProtectedMethods: cfg.ProtectedMethods,
		APIPrefix:        cfg.APIPrefix,
		PublicWritePaths: cfg.PublicWritePaths,
		AllowedRoles:     cfg.AllowedRoles,
	}
}

func (g *RoleGate) Name() string { return GateRole }

// Protected classifica a requisição como operação privilegiada.
func (g *RoleGate) Protected(method, path string) bool {
	if g.ProtectedPaths.Match(path) {
		return true
	}
	if !methodIn(method, g.ProtectedMethods) || g.APIPrefix == "" || !strings.HasPrefix(path, g.APIPrefix) {
		return false
	}
	return !g.publicWrite(method, path)
}

// publicWrite: igual a um endpoint liberado, ou POST em qualquer coisa abaixo dele.
func (g *RoleGate) publicWrite(method, path string) bool {
	for _, p := range g.PublicWritePaths {
		if path == p {
			return true
		}
		if strings.HasPrefix(path, p) && strings.EqualFold(method, domain.MethodPost) {
			return true
		}
	}
	return false
}

func (g *RoleGate) hasRole(p domain.Principal) bool {
	if !p.Authenticated || !p.HasRole {
		return false
	}
	for _, r := range g.AllowedRoles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (g *RoleGate) Check(req domain.Request, now time.Time) domain.Decision {
	if !g.Protected(req.Method, req.Path) || g.hasRole(req.Principal) {
		return domain.Continue()
	}

	var (
		err    error
		reason string
		status string
	)
	if !req.Principal.Authenticated {
		err = domain.ErrUnauthenticated
		reason = "Authentication required"
		status = "Not authenticated"
	} else {
		err = domain.ErrInsufficientRole
		reason = "Insufficient privileges"
		role := "unknown"
		if req.Principal.HasRole {
			role = req.Principal.Role
		}
		status = "User role: " + role
	}

	body := fmt.Sprintf(
		"403 Forbidden\n"+
			"Access Denied: %s\n"+
			"This operation requires %s privileges.\n"+
			"Required roles: %s\n"+
			"Your status: %s\n"+
			"Requested path: %s\n"+
			"Method: %s\n"+
			"Time: %s\n",
		reason, strings.Join(g.AllowedRoles, " or "), strings.Join(g.AllowedRoles, ", "),
		status, req.Path, req.Method, now.Format(time.TimeOnly))

	return domain.Deny(domain.StatusForbidden, err, reason, body)
}
