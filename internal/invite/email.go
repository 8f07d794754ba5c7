// Package invite holds the invite-by-email sub-flow of the purchase form.
package invite

import (
	"regexp"
	"strings"
)

// jsSpace is the ECMAScript \s class. Go's \s is ASCII only.
const jsSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var emailPattern = regexp.MustCompile(
	`^(([^<>()\[\]\\.,;:` + jsSpace + `@"]+(\.[^<>()\[\]\\.,;:` + jsSpace + `@"]+)*)|("[^\n\r\x{2028}\x{2029}]+"))` +
		`@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`,
)

// ValidEmail reports whether s is a syntactically valid address: a dot-atom or
// quoted local part, and a dotted domain or bracketed IPv4 literal.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ExtractEmails splits raw on commas and keeps the tokens that are valid
// addresses, in input order and without duplicates. Whitespace around a token
// is ignored; malformed tokens are dropped silently.
func ExtractEmails(raw string) []string {
	tokens := strings.Split(raw, ",")
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if !ValidEmail(token) {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
