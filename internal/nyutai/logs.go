package nyutai

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

// Record is one entrance/exit pair. A nil ExitTime means the student has not
// left yet.
type Record struct {
	UserID       ID      `json:"user_id"`
	EntranceTime *string `json:"entrance_time"`
	ExitTime     *string `json:"exit_time"`
}

type DateRange struct {
	From time.Time
	To   time.Time
}

// LastDays returns the range from days before today up to today, in the
// location of now.
func LastDays(now time.Time, days int) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateRange{
		From: today.AddDate(0, 0, -days),
		To:   today,
	}
}

func (r DateRange) Query() url.Values {
	query := url.Values{}
	query.Set("date_from", r.From.Format(dateLayout))
	query.Set("date_to", r.To.Format(dateLayout))
	return query
}

func (r DateRange) String() string {
	return r.From.Format(dateLayout) + ".." + r.To.Format(dateLayout)
}

// GetLogs fetches the entrance/exit records in the range with a single
// unpaginated request. Records without a user id are dropped.
func (client *Client) GetLogs(ctx context.Context, r DateRange) ([]Record, error) {
	data, err := getData[Record](ctx, client, "entrance_and_exits", r.Query())
	if err != nil {
		return nil, fmt.Errorf("entrance and exits %s: %w", r, err)
	}

	records := make([]Record, 0, len(data))
	for _, record := range data {
		if record.UserID == 0 {
			slog.Warn("skipping record without user id", "range", r.String())
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseTimestamp accepts ISO-8601 timestamps with or without an offset.
// Timestamps without an offset are read in loc.
func ParseTimestamp(text string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, nil
	}

	formats := []string{
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}

	for _, format := range formats {
		t, err := time.ParseInLocation(format, text, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp: %q", text)
}
