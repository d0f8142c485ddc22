package azure

// Claims is the decoded payload of a validated token: string keys with
// heterogeneous values (strings, string lists, numbers).
type Claims map[string]interface{}

// Subject returns the provider-stable user identifier. Azure AD's oid claim
// is stable across applications within a tenant; sub is only a fallback.
func (c Claims) Subject() string {
	if oid := c.str("oid"); oid != "" {
		return oid
	}
	return c.str("sub")
}

// Email returns the first non-empty of the address-bearing claims.
func (c Claims) Email() string {
	for _, key := range []string{"email", "preferred_username", "upn"} {
		if v := c.str(key); v != "" {
			return v
		}
	}
	return ""
}

// Name returns the display name claim.
func (c Claims) Name() string { return c.str("name") }

// Roles returns the Azure app roles claim.
func (c Claims) Roles() []string { return c.strList("roles") }

// Groups returns the Azure AD groups claim.
func (c Claims) Groups() []string { return c.strList("groups") }

func (c Claims) str(key string) string {
	v, _ := c[key].(string)
	return v
}

// strList tolerates both []string and the []interface{} shape produced by
// JSON decoding.
func (c Claims) strList(key string) []string {
	switch v := c[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
