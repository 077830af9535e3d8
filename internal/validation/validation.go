// Package validation holds the pure input guards for team names, ratings and usernames.
//
// Every guard returns the cleaned value or a *Failure; nothing is logged and
// nothing is mutated, callers decide what to do with a failure.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinTeamNameLen = 2
	MaxTeamNameLen = 50
	MinRating      = 0
	MaxRating      = 100
	MinUsernameLen = 5
	MaxUsernameLen = 32

	teamNameSymbols = " -_.[]"
)

// Failure codes; the transport localizes by code, Reason is the English text.
const (
	CodeEmpty          = "empty"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodeInvalidChars   = "invalid_chars"
	CodeDoubleSpace    = "double_space"
	CodeReserved       = "reserved"
	CodeNotNumber      = "not_number"
	CodeNegative       = "negative"
	CodeTooHigh        = "too_high"
	CodeMustStartAlpha = "must_start_letter"
)

var reservedNames = []string{"admin", "bot", "moderator", "null", "undefined", "админ", "бот"}

// Failure is a user-correctable rule violation.
type Failure struct {
	Field  string
	Code   string
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

func fail(field, code, reason string) *Failure {
	return &Failure{Field: field, Code: code, Reason: reason}
}

// AsFailure unwraps err into a *Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// TeamName returns the trimmed name when it satisfies length, charset and blocklist rules.
func TeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fail("team_name", CodeEmpty, "Team name cannot be empty")
	}
	n := utf8.RuneCountInString(name)
	if n < MinTeamNameLen {
		return "", fail("team_name", CodeTooShort, "Team name must be at least 2 characters long")
	}
	if n > MaxTeamNameLen {
		return "", fail("team_name", CodeTooLong, "Team name cannot exceed 50 characters")
	}
	for _, r := range name {
		if !teamNameRune(r) {
			return "", fail("team_name", CodeInvalidChars, "Team name contains invalid characters")
		}
	}
	if strings.Contains(name, "  ") {
		return "", fail("team_name", CodeDoubleSpace, "Team name cannot contain multiple consecutive spaces")
	}
	lower := strings.ToLower(name)
	for _, w := range reservedNames {
		if lower == w {
			return "", fail("team_name", CodeReserved, "Team name contains forbidden words")
		}
	}
	return name, nil
}

func teamNameRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case unicode.IsLetter(r) && (unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r)):
		return true
	case strings.ContainsRune(teamNameSymbols, r):
		return true
	}
	return false
}

// Rating checks the inclusive [0,100] range.
func Rating(rating int) (int, error) {
	if rating < MinRating {
		return 0, fail("rating", CodeNegative, "Rating cannot be negative")
	}
	if rating > MaxRating {
		return 0, fail("rating", CodeTooHigh, "Rating cannot exceed 100")
	}
	return rating, nil
}

// ParseRating coerces text to an integer and applies Rating.
func ParseRating(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(strings.TrimSpace(s), "-") {
				return Rating(-1)
			}
			return Rating(MaxRating + 1)
		}
		return 0, fail("rating", CodeNotNumber, "Rating must be a valid number")
	}
	return Rating(v)
}

// Username returns the handle without the leading @ when it follows Telegram's rules.
func Username(username string) (string, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if clean == "" {
		return "", fail("username", CodeEmpty, "Username cannot be empty")
	}
	if len(clean) < MinUsernameLen {
		return "", fail("username", CodeTooShort, "Username must be at least 5 characters long")
	}
	if len(clean) > MaxUsernameLen {
		return "", fail("username", CodeTooLong, "Username cannot exceed 32 characters")
	}
	for _, r := range clean {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "", fail("username", CodeInvalidChars, "Username can only contain letters, numbers, and underscores")
		}
	}
	first := clean[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return "", fail("username", CodeMustStartAlpha, "Username must start with a letter")
	}
	return clean, nil
}
