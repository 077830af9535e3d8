package interpreter

import (
	"regexp"
	"tourneybot/entity"
)

// Every pattern is case-insensitive and captures exactly one group.
var tables = map[Language][]group{
	LangRU: {
		{kind: KindTeamName, patterns: compile(
			`бот,?\s*мой\s+ник\s+(.+)$`,
			`бот,?\s*команда\s+(.+)$`,
			`бот,?\s*название\s+команды\s+(.+)$`,
		)},
		{kind: KindRating, track: entity.TrackVSA, patterns: compile(
			`бот,?\s*мой\s+рекорд\s+в\s+vsa\s+(-?\d+)`,
			`бот,?\s*vsa\s+рейтинг\s+(-?\d+)`,
			`бот,?\s*рейтинг\s+vsa\s+(-?\d+)`,
			`бот,?\s*мой\s+рекорд\s+в\s+vsa\s+х?\s*(-?\d+)`,
			`бот,?\s*vsa\s+х?\s*(-?\d+)`,
		)},
		{kind: KindRating, track: entity.TrackH2H, patterns: compile(
			`бот,?\s*мой\s+рекорд\s+в\s+h2h\s+(-?\d+)`,
			`бот,?\s*h2h\s+рейтинг\s+(-?\d+)`,
			`бот,?\s*рейтинг\s+h2h\s+(-?\d+)`,
			`бот,?\s*мой\s+рекорд\s+в\s+h2h\s+х?\s*(-?\d+)`,
			`бот,?\s*h2h\s+х?\s*(-?\d+)`,
		)},
		{kind: KindConfirm, patterns: compile(
			`подтвердить\s+@?(\w+)`,
			`бот,?\s*@?(\w+)\s*\+\s*1(?:\D|$)`,
			`@(\w+)\s*подтвержден`,
		)},
		{kind: KindReject, patterns: compile(
			`отклонить\s+@?(\w+)`,
			`бот,?\s*@?(\w+)\s*-\s*1(?:\D|$)`,
			`@(\w+)\s*отклон[её]н`,
		)},
	},
	LangEN: {
		{kind: KindTeamName, patterns: compile(
			`bot,?\s*my\s+nick(?:name)?\s+(.+)$`,
			`bot,?\s*team\s+name\s+(.+)$`,
			`bot,?\s*my\s+team\s+name\s+(.+)$`,
			`bot,?\s*my\s+team\s+(.+)$`,
			`set\s+team\s+name\s+(.+)$`,
		)},
		{kind: KindRating, track: entity.TrackVSA, patterns: compile(
			`bot,?\s*my\s+vsa\s+(?:rating|record)\s+(-?\d+)`,
			`bot,?\s*vsa\s+rating\s+(-?\d+)`,
			`bot,?\s*vsa\s+(-?\d+)`,
			`set\s+(?:vsa|track-a)\s+rating\s+(-?\d+)`,
		)},
		{kind: KindRating, track: entity.TrackH2H, patterns: compile(
			`bot,?\s*my\s+h2h\s+(?:rating|record)\s+(-?\d+)`,
			`bot,?\s*h2h\s+rating\s+(-?\d+)`,
			`bot,?\s*h2h\s+(-?\d+)`,
			`set\s+(?:h2h|track-b)\s+rating\s+(-?\d+)`,
		)},
		{kind: KindConfirm, patterns: compile(
			`bot,?\s*confirm\s+@?(\w+)`,
			`bot,?\s*@?(\w+)\s*\+\s*1(?:\D|$)`,
			`bot,?\s*@?(\w+)\s*confirmed`,
		)},
		{kind: KindReject, patterns: compile(
			`bot,?\s*reject\s+@?(\w+)`,
			`bot,?\s*@?(\w+)\s*-\s*1(?:\D|$)`,
			`bot,?\s*@?(\w+)\s*rejected`,
		)},
	},
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

// Examples are the canonical phrases shown in help texts.
func Examples(lang Language) []string {
	if lang == LangRU {
		return []string{
			"Бот, мой ник TeamAwesome",
			"Бот, мой рекорд в VSA 42",
			"Бот, мой рекорд в H2H 38",
			"Бот @username +1",
		}
	}
	return []string{
		"Bot, my nick TeamAwesome",
		"Bot, my VSA rating 42",
		"Bot, my H2H rating 38",
		"Bot @username +1",
	}
}
