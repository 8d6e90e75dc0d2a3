package graph

import (
	"fmt"
	"strings"
)

// Policy decides how a link target written in a document maps to a slug.
type Policy string

const (
	// PolicyShortest resolves a bare file name to the unique document of that
	// name anywhere in the site, falling back to PolicyExact.
	PolicyShortest Policy = "shortest"
	// PolicyExact treats every target as a path from the content root.
	PolicyExact Policy = "exact"
	// PolicyRelative treats every target as a path from the linking document's folder.
	PolicyRelative Policy = "relative"
)

// ParsePolicy accepts a policy name. "absolute" is accepted for PolicyExact.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyShortest):
		return PolicyShortest, nil
	case string(PolicyExact), "absolute":
		return PolicyExact, nil
	case string(PolicyRelative):
		return PolicyRelative, nil
	default:
		return "", fmt.Errorf("unknown link resolution policy %q (want shortest, exact or relative)", s)
	}
}
