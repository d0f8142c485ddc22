package azure

import (
	"strings"

	"github.com/summaryhub/summaryhub/internal/config"
	"github.com/summaryhub/summaryhub/internal/models"
)

// RoleMapping maps Azure roles/groups claims onto application roles.
// Role aliases match case-insensitively (Azure app role values vary in
// casing across app registrations); group names match exactly.
type RoleMapping struct {
	AdminRoles   []string
	WriterRoles  []string
	AdminGroups  []string
	WriterGroups []string
}

// NewRoleMapping builds a mapping from the configured alias lists.
func NewRoleMapping(cfg config.AzureConfig) RoleMapping {
	return RoleMapping{
		AdminRoles:   cfg.AdminRoles,
		WriterRoles:  cfg.WriterRoles,
		AdminGroups:  cfg.AdminGroups,
		WriterGroups: cfg.WriterGroups,
	}
}

// Map derives the application role from token claims. Evaluation is strict
// priority order, first match wins: admin roles, writer roles, admin groups,
// writer groups, then reader. Reader is the universal fallback so an
// unrecognized or absent claim always lands on the least-privileged tier.
func (m RoleMapping) Map(c Claims) models.Role {
	roles := c.Roles()
	if matchFold(roles, m.AdminRoles) {
		return models.RoleAdmin
	}
	if matchFold(roles, m.WriterRoles) {
		return models.RoleWriter
	}
	groups := c.Groups()
	if matchExact(groups, m.AdminGroups) {
		return models.RoleAdmin
	}
	if matchExact(groups, m.WriterGroups) {
		return models.RoleWriter
	}
	return models.RoleReader
}

func matchFold(values, aliases []string) bool {
	for _, v := range values {
		for _, a := range aliases {
			if strings.EqualFold(v, a) {
				return true
			}
		}
	}
	return false
}

func matchExact(values, aliases []string) bool {
	for _, v := range values {
		for _, a := range aliases {
			if v == a {
				return true
			}
		}
	}
	return false
}
