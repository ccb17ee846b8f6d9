// Package validator holds the input checks applied before catalog and user records are created.
package validator

import (
	"strconv"
	"strings"
	"time"
)

// NonEmpty reports whether s contains anything besides whitespace
func NonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Email performs a shallow address check: an '@' with a '.' somewhere after the last one
func Email(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}

// Phone accepts at least ten digits once dashes, spaces and parentheses are removed
func Phone(s string) bool {
	cleaned := strip(s, "-", " ", "(", ")")
	return len(cleaned) >= 10 && digits(cleaned)
}

// ISBN accepts 10 or 13 digits once dashes and spaces are removed
func ISBN(s string) bool {
	cleaned := strip(s, "-", " ")
	return (len(cleaned) == 10 || len(cleaned) == 13) && digits(cleaned)
}

// Year accepts an integer between 1000 and the current year
func Year(s string) bool {
	return YearAt(s, time.Now())
}

// YearAt is Year evaluated against the given clock reading
func YearAt(s string, now time.Time) bool {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return y >= 1000 && y <= now.Year()
}

// Date accepts a calendar date written as YYYY-MM-DD
func Date(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func strip(s string, cutset ...string) string {
	for _, c := range cutset {
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
