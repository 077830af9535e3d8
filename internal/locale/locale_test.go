package locale

import (
	"strings"
	"testing"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesHaveSameKeys(t *testing.T) {
	for key := range english {
		_, ok := russian[key]
		assert.True(t, ok, "russian table misses %q", key)
	}
	for key := range russian {
		_, ok := english[key]
		assert.True(t, ok, "english table misses %q", key)
	}
}

func TestTextFormatsAndFallsBack(t *testing.T) {
	assert.Equal(t, "You are already registered for VSA.", Text(interpreter.LangEN, AlreadyConfirmed, "VSA"))
	assert.Equal(t, "Вы уже зарегистрированы в H2H.", Text(interpreter.LangRU, AlreadyConfirmed, "H2H"))
	assert.Equal(t, english[AdminsOnly], Text(interpreter.Language("de"), AdminsOnly))
	assert.Equal(t, "no_such_key", Text(interpreter.LangEN, Key("no_such_key")))
}

func TestReason(t *testing.T) {
	_, err := validation.Rating(150)
	f, ok := validation.AsFailure(err)
	require.True(t, ok)

	assert.Equal(t, f.Reason, Reason(interpreter.LangEN, f))
	assert.Equal(t, "Рекорд не может превышать 100", Reason(interpreter.LangRU, f))
	assert.Equal(t, "", Reason(interpreter.LangRU, nil))
}

func TestExamples(t *testing.T) {
	text := Examples(interpreter.LangRU)
	assert.True(t, strings.HasPrefix(text, "• Бот"))
	assert.Len(t, strings.Split(text, "\n"), len(interpreter.Examples(interpreter.LangRU)))
}
