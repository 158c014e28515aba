package bot

import (
	"testing"
	"time"

	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id nyutai.ID, entrance, exit string) nyutai.Record {
	r := nyutai.Record{UserID: id}
	if entrance != "" {
		r.EntranceTime = &entrance
	}
	if exit != "" {
		r.ExitTime = &exit
	}
	return r
}

func TestFormatAttendanceLog(t *testing.T) {
	alice := nyutai.Student{ID: 1, Name: "Alice"}
	log, ok := nyutai.BuildAttendanceLog(alice, []nyutai.Record{
		record(1, "2024-05-01T09:00:00", "2024-05-01T12:30:00"),
		record(1, "2024-05-02T10:00:00", ""),
	}, time.UTC)
	require.True(t, ok)

	embed := FormatAttendanceLog(log, i18n.English)

	assert.Equal(t, "Alice attendance log", embed.Title)
	assert.Equal(t, embedColor, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, i18n.English.Footer, embed.Footer.Text)
	assert.Equal(t, ""+
		"**Total time in the last week: 3 hours 30 minutes**\n"+
		"\n"+
		"**2024**\n"+
		"**May**\n"+
		"1 (Wed) 3 hours 30 minutes 09:00 → 12:30\n"+
		"2 (Thu) in progress 10:00 → not yet exited",
		embed.Description)
}

func TestFormatAttendanceLogJapanese(t *testing.T) {
	student := nyutai.Student{ID: 1, Name: "山田"}
	log, ok := nyutai.BuildAttendanceLog(student, []nyutai.Record{
		record(1, "2024-12-31T17:05:00+09:00", "2024-12-31T19:10:00+09:00"),
		record(1, "2025-01-06T09:00:00+09:00", ""),
	}, time.UTC)
	require.True(t, ok)

	embed := FormatAttendanceLog(log, i18n.Japanese)

	assert.Equal(t, "山田 の入退室ログ", embed.Title)
	assert.Equal(t, ""+
		"**直近一週間の合計滞在時間: 2時間5分**\n"+
		"\n"+
		"**2024年**\n"+
		"**12月**\n"+
		"31日（火） 2時間5分 17:05 → 19:10\n"+
		"**2025年**\n"+
		"**1月**\n"+
		"6日（月） 滞在中 09:00 → 未退室",
		embed.Description)
}

func TestFormatAttendanceLogWithoutVisits(t *testing.T) {
	log, ok := nyutai.BuildAttendanceLog(nyutai.Student{ID: 1, Name: "A"}, []nyutai.Record{record(1, "", "")}, time.UTC)
	require.True(t, ok)

	embed := FormatAttendanceLog(log, i18n.English)
	assert.Equal(t, "**Total time in the last week: 0 hours 0 minutes**\n", embed.Description)
}
