// Package interpreter turns a free-form chat message into a typed Command.
//
// Patterns live in a fixed table: one entry per language, each holding the
// command groups in the order they are tried:
//
//	team name → VSA rating → H2H rating → confirm → reject
//
// Within a group patterns are tried top to bottom and the first match wins.
// The requested language is tried first, then every other language in
// fallbackOrder, so users may mix languages. Parse holds no state.
package interpreter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"tourneybot/entity"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Language string

const (
	LangEN Language = "en"
	LangRU Language = "ru"
)

var fallbackOrder = []Language{LangEN, LangRU}

// LanguageFromCode maps a Telegram language_code ("ru", "ru-RU", "") to a supported language.
func LanguageFromCode(code string) Language {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return LangEN
	}
	base, _ := tag.Base()
	for _, l := range fallbackOrder {
		if base.String() == string(l) {
			return l
		}
	}
	return LangEN
}

type Kind int

const (
	KindTeamName Kind = iota + 1
	KindRating
	KindConfirm
	KindReject
)

func (k Kind) String() string {
	switch k {
	case KindTeamName:
		return "team_name"
	case KindRating:
		return "rating"
	case KindConfirm:
		return "confirm"
	case KindReject:
		return "reject"
	}
	return "unknown"
}

// Command carries only the fields of its Kind: TeamName for KindTeamName,
// Track and Rating for KindRating, Username for KindConfirm and KindReject.
type Command struct {
	Kind     Kind
	TeamName string
	Track    entity.Track
	Rating   int
	Username string
}

type group struct {
	kind     Kind
	track    entity.Track
	patterns []*regexp.Regexp
}

var markupRe = regexp.MustCompile(`<[^>]+>`)

// Parse returns the first matching command, or false when nothing matches.
// No match is not an error; callers answer with generic help.
func Parse(text string, lang Language) (Command, bool) {
	clean := normalize(text)
	if clean == "" {
		return Command{}, false
	}
	for _, l := range searchOrder(lang) {
		if cmd, ok := matchLanguage(clean, l); ok {
			return cmd, true
		}
	}
	return Command{}, false
}

func normalize(text string) string {
	text = markupRe.ReplaceAllString(text, "")
	text = norm.NFC.String(text)
	return strings.TrimSpace(text)
}

func searchOrder(lang Language) []Language {
	order := make([]Language, 0, len(fallbackOrder))
	if _, ok := tables[lang]; ok {
		order = append(order, lang)
	}
	for _, l := range fallbackOrder {
		if l != lang {
			order = append(order, l)
		}
	}
	return order
}

func matchLanguage(text string, lang Language) (Command, bool) {
	for _, g := range tables[lang] {
		for _, re := range g.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if cmd, ok := g.extract(m[1]); ok {
				return cmd, true
			}
		}
	}
	return Command{}, false
}

func (g group) extract(value string) (Command, bool) {
	switch g.kind {
	case KindTeamName:
		name := strings.TrimSpace(value)
		if name == "" {
			return Command{}, false
		}
		return Command{Kind: KindTeamName, TeamName: name}, true
	case KindRating:
		return Command{Kind: KindRating, Track: g.track, Rating: parseRating(value)}, true
	case KindConfirm, KindReject:
		return Command{Kind: g.kind, Username: strings.TrimPrefix(value, "@")}, true
	}
	return Command{}, false
}

// parseRating clamps values that do not fit an int to an out-of-range rating
// so validation reports them instead of the interpreter.
func parseRating(s string) int {
	v, err := strconv.Atoi(s)
	if err == nil {
		return v
	}
	if strings.HasPrefix(s, "-") {
		return math.MinInt
	}
	return math.MaxInt
}
