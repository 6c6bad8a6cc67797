package common

import (
	"strings"
)

// SplitCommaSep splits a comma separated list such as "admin, submit" into
// its trimmed, non-empty elements.
func SplitCommaSep(commaSepString string) []string {
	var out []string
	for _, s := range strings.Split(commaSepString, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
