package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielholmes839/nyutai-log-bot/internal/config"
	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
)

type fakeClient struct {
	students []nyutai.Student
	records  []nyutai.Record
	err      error
}

func (c *fakeClient) GetStudents(ctx context.Context) ([]nyutai.Student, error) {
	return c.students, c.err
}

func (c *fakeClient) GetLogs(ctx context.Context, r nyutai.DateRange) ([]nyutai.Record, error) {
	return c.records, c.err
}

func str(s string) *string {
	return &s
}

func testConfig() config.Config {
	return config.Config{
		Location:     time.UTC,
		LookbackDays: 7,
		Messages:     i18n.English,
	}
}

func TestRunStudents(t *testing.T) {
	client := &fakeClient{students: []nyutai.Student{{ID: 1, Name: "Alice"}, {ID: 12, Name: "Bob"}}}

	var out bytes.Buffer
	require.NoError(t, runStudents(context.Background(), client, &out, ""))
	assert.Equal(t, "1   Alice\n12  Bob\n", out.String())

	out.Reset()
	require.NoError(t, runStudents(context.Background(), client, &out, "Bo"))
	assert.Equal(t, "12  Bob\n", out.String())
}

func TestRunStudentsError(t *testing.T) {
	var out bytes.Buffer
	err := runStudents(context.Background(), &fakeClient{err: errors.New("status 500")}, &out, "")
	assert.ErrorContains(t, err, "failed to get students")
}

func TestRunReport(t *testing.T) {
	client := &fakeClient{
		students: []nyutai.Student{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Alicia"}},
		records: []nyutai.Record{
			{UserID: 1, EntranceTime: str("2024-05-01T09:00:00"), ExitTime: str("2024-05-01T12:30:00")},
		},
	}
	now := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	require.NoError(t, runReport(context.Background(), client, testConfig(), &out, "", 1, now))
	assert.Contains(t, out.String(), "Alice attendance log\n")
	assert.Contains(t, out.String(), "1 (Wed) 3 hours 30 minutes 09:00 → 12:30")

	out.Reset()
	require.NoError(t, runReport(context.Background(), client, testConfig(), &out, "Alicia", 0, now))
	assert.Equal(t, "No matching log entries.\n", out.String())

	err := runReport(context.Background(), client, testConfig(), &out, "Ali", 0, now)
	assert.ErrorContains(t, err, "matches 2 students")

	err = runReport(context.Background(), client, testConfig(), &out, "", 9, now)
	assert.ErrorContains(t, err, "no student with id 9")
}
