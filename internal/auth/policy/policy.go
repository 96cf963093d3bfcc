// Package policy decides which routes require an authenticated principal.
// The decision table is ordered, immutable after construction, and total:
// every request matches the trailing catch-all rule if nothing else does.
package policy

import (
	"net/http"
	"strings"
)

// Access classifies a route as public or requiring authentication.
type Access int

// Access classes.
const (
	Public Access = iota
	RequiresAuthentication
)

// Rule matches a request by path prefix and method set. An empty method set
// matches every method. First matching rule wins.
type Rule struct {
	PathPrefix string
	Methods    []string
	Access     Access
}

func (r Rule) matches(method, path string) bool {
	if !strings.HasPrefix(path, r.PathPrefix) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Matcher evaluates an ordered rule table.
type Matcher struct {
	rules []Rule
}

// NewMatcher builds a matcher from an ordered rule table. A catch-all rule
// requiring authentication is appended so the table stays total.
func NewMatcher(rules []Rule) *Matcher {
	table := make([]Rule, len(rules), len(rules)+1)
	copy(table, rules)
	table = append(table, Rule{PathPrefix: "/", Access: RequiresAuthentication})
	return &Matcher{rules: table}
}

// Classify returns the access class for a request. Unmatched requests require
// authentication.
func (m *Matcher) Classify(method, path string) Access {
	for _, rule := range m.rules {
		if rule.matches(method, path) {
			return rule.Access
		}
	}
	return RequiresAuthentication
}

// DefaultRules is the route access table for the API surface. Ordering
// matters: the blog create prefix must precede the broader public blog reads.
func DefaultRules() []Rule {
	get := []string{http.MethodGet}
	return []Rule{
		{PathPrefix: "/api/auth/", Access: Public},
		{PathPrefix: "/uploads/", Methods: get, Access: Public},
		{PathPrefix: "/api/blogs/create", Access: RequiresAuthentication},
		{PathPrefix: "/api/blogs/all", Methods: get, Access: Public},
		{PathPrefix: "/api/blogs/image/", Methods: get, Access: Public},
		{PathPrefix: "/api/blogs/user/", Methods: get, Access: Public},
		{PathPrefix: "/api/pets", Methods: get, Access: Public},
		{PathPrefix: "/api/shelters", Methods: get, Access: Public},
		{PathPrefix: "/api/announcements", Methods: get, Access: Public},
		{PathPrefix: "/health", Access: Public},
		{PathPrefix: "/ready", Access: Public},
	}
}

// NewDefaultMatcher builds a matcher over DefaultRules.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultRules())
}
