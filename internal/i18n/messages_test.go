package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestForLocale(t *testing.T) {
	assert.Equal(t, English.Title, ForLocale(language.English).Title)
	assert.Equal(t, English.Title, ForLocale(language.AmericanEnglish).Title)
	assert.Equal(t, Japanese.Title, ForLocale(language.MustParse("ja-JP")).Title)
	assert.Equal(t, English.Title, ForLocale(language.German).Title)
}

func TestForLocaleReturnsCopy(t *testing.T) {
	m := ForLocale(language.English)
	m.Weekdays[0] = "changed"
	assert.Equal(t, "Mon", English.Weekdays[0])
}

func TestOverlay(t *testing.T) {
	m := English.Overlay(Messages{
		Footer:   "custom footer",
		Weekdays: []string{"M", "T", "W", "T", "F", "S", "S"},
	})

	assert.Equal(t, "custom footer", m.Footer)
	assert.Equal(t, "M", m.Weekday(time.Monday))
	assert.Equal(t, English.Title, m.Title)
	assert.Equal(t, "Mon", English.Weekdays[0])
}

func TestValidate(t *testing.T) {
	require.NoError(t, English.Validate())
	require.NoError(t, Japanese.Validate())

	bad := English.Overlay(Messages{Weekdays: []string{"Mon"}})
	assert.Error(t, bad.Validate())

	bad = English.Overlay(Messages{Months: []string{"Jan"}})
	assert.Error(t, bad.Validate())
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Mon", English.Weekday(time.Monday))
	assert.Equal(t, "Sun", English.Weekday(time.Sunday))
	assert.Equal(t, "水", Japanese.Weekday(time.Wednesday))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "3 hours 30 minutes", English.FormatDuration(3*time.Hour+30*time.Minute+59*time.Second))
	assert.Equal(t, "0 hours 0 minutes", English.FormatDuration(0))
	assert.Equal(t, "26 hours 5 minutes", English.FormatDuration(26*time.Hour+5*time.Minute))
	assert.Equal(t, "1時間5分", Japanese.FormatDuration(65*time.Minute))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "May", English.MonthName(time.May))
	assert.Equal(t, "12月", Japanese.MonthName(time.December))
}
