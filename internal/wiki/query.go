package wiki

import (
	"regexp"
	"strings"
)

var (
	ruleRe  = regexp.MustCompile(`(?m)^\s*-{3,}\s*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeQuery strips markdown horizontal rules that the UI sometimes
// wraps around a term and collapses whitespace.
func NormalizeQuery(q string) string {
	q = ruleRe.ReplaceAllString(q, " ")
	q = spaceRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}
