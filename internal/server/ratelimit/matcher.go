package ratelimit

import "strings"

// MatchEndpoint finds the rule for a path and method. Health checks are
// never limited. Exact matches win over prefix matches.
func MatchEndpoint(path, method string, rules []EndpointRule) *EndpointRule {
	if path == "/health" && method == "GET" {
		return &EndpointRule{}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Path == path && rule.Method == method {
			return rule
		}
	}
	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}
	return nil
}
