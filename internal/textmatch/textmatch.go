package textmatch

import (
	"regexp"
	"strings"
	"time"
)

// Budget for a single regex evaluation. Go's regexp engine runs in linear
// time, but a huge pattern against huge content can still burn a worker.
const regexBudget = 100 * time.Millisecond

func Contains(source, pattern string, caseSensitive bool) bool {
	if source == "" || pattern == "" {
		return false
	}
	if caseSensitive {
		return strings.Contains(source, pattern)
	}
	return strings.Contains(strings.ToLower(source), strings.ToLower(pattern))
}

func Equals(source, pattern string, caseSensitive bool) bool {
	if source == "" || pattern == "" {
		return false
	}
	if caseSensitive {
		return source == pattern
	}
	// Same folding as the other predicates, so a string that matches in
	// Contains mode also matches in Exact mode.
	return strings.ToLower(source) == strings.ToLower(pattern)
}

func HasPrefix(source, pattern string, caseSensitive bool) bool {
	if source == "" || pattern == "" {
		return false
	}
	if caseSensitive {
		return strings.HasPrefix(source, pattern)
	}
	return strings.HasPrefix(strings.ToLower(source), strings.ToLower(pattern))
}

func HasSuffix(source, pattern string, caseSensitive bool) bool {
	if source == "" || pattern == "" {
		return false
	}
	if caseSensitive {
		return strings.HasSuffix(source, pattern)
	}
	return strings.HasSuffix(strings.ToLower(source), strings.ToLower(pattern))
}

// MatchesPattern reports whether source matches the regex pattern. A pattern
// that fails to compile, or an evaluation that exceeds the budget, counts as
// no match rather than an error.
func MatchesPattern(source, pattern string, caseSensitive bool) bool {
	if source == "" || pattern == "" {
		return false
	}
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}

	done := make(chan bool, 1)
	go func() {
		done <- re.MatchString(source)
	}()

	timer := time.NewTimer(regexBudget)
	defer timer.Stop()
	select {
	case matched := <-done:
		return matched
	case <-timer.C:
		return false
	}
}
