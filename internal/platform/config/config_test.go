package config

import (
	"testing"
	"time"

	kit "zhkh/internal/platform/testkit"

	"github.com/stretchr/testify/assert"
)

func TestPrefixStacks(t *testing.T) {
	c := New().Prefix("GIGACHAT_").Prefix("AUTH_")
	assert.Equal(t, "GIGACHAT_AUTH_URL", c.key("URL"))
}

func TestMustString(t *testing.T) {
	c := New().Prefix("BOT_")
	t.Setenv("BOT_TOKEN", "  123:abc ")
	assert.Equal(t, "123:abc", c.MustString("TOKEN"))

	t.Setenv("BOT_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	assert.Equal(t, "def", c.MayString("MISSING", "def"))
	t.Setenv("S_NAME", " zhkh ")
	assert.Equal(t, "zhkh", c.MayString("NAME", "x"))
}

func TestMayParsed(t *testing.T) {
	c := New().Prefix("CLS_")
	t.Setenv("CLS_BURST", " 7 ")
	t.Setenv("CLS_RPS", "2.5")
	t.Setenv("CLS_CH", "true")
	t.Setenv("CLS_TIMEOUT", "150ms")

	assert.Equal(t, 7, c.MayInt("BURST", 0))
	assert.InDelta(t, 2.5, c.MayFloat64("RPS", 0), 1e-9)
	assert.True(t, c.MayBool("CH", false))
	assert.Equal(t, 150*time.Millisecond, c.MayDuration("TIMEOUT", time.Second))

	// unset
	assert.Equal(t, 9, c.MayInt("MISSING", 9))
	assert.Equal(t, 5*time.Second, c.MayDuration("MISSING", 5*time.Second))

	// unparsable falls back
	t.Setenv("CLS_BAD", "nope")
	assert.Equal(t, 3, c.MayInt("BAD", 3))
	assert.InDelta(t, 1.0, c.MayFloat64("BAD", 1), 1e-9)
	assert.False(t, c.MayBool("BAD", false))
	assert.Equal(t, time.Minute, c.MayDuration("BAD", time.Minute))
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORS_")
	assert.Equal(t, []string{"*"}, c.MayCSV("MISSING", []string{"*"}))

	t.Setenv("CORS_ORIGINS", " https://a.ru, https://b.ru , ,")
	assert.Equal(t, []string{"https://a.ru", "https://b.ru"}, c.MayCSV("ORIGINS", nil))

	t.Setenv("CORS_EMPTY", " , ,  ,")
	assert.Equal(t, []string{"fallback"}, c.MayCSV("EMPTY", []string{"fallback"}))
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("CLASSIFIER_")
	assert.Equal(t, "gigachat", c.MayEnum("MISSING", "gigachat", "gigachat", "gemini", "rules"))
	assert.Empty(t, c.MayEnum("MISSING", "", "gigachat"))

	t.Setenv("CLASSIFIER_PROVIDER", "Gemini")
	assert.Equal(t, "Gemini", c.MayEnum("PROVIDER", "gigachat", "gigachat", "gemini", "rules"))

	t.Setenv("CLASSIFIER_BAD", "openai")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "gigachat", "gigachat", "gemini", "rules") })
}
