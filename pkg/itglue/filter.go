package itglue

import (
	"regexp"
	"strings"
)

// matchName matches a record name against a caller pattern: as a regular
// expression when the pattern compiles, otherwise as a case-sensitive
// substring. Matching happens client-side after a full fetch; request count
// is the same as listing everything.
func matchName(name, pattern string) bool {
	if re, err := regexp.Compile(pattern); err == nil {
		return re.MatchString(name)
	}
	return strings.Contains(name, pattern)
}
