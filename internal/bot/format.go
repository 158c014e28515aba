package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
)

const (
	embedColor     = 0x1abc9c
	timeLayout     = "15:04"
	maxDescription = 4096
)

func formatVisit(visit nyutai.Visit, messages i18n.Messages) string {
	duration := messages.InProgress
	end := messages.NotExited
	if visit.Exited {
		duration = messages.FormatDuration(visit.Duration)
		end = visit.Exit.Format(timeLayout)
	}

	return fmt.Sprintf(messages.DayLine,
		visit.Day(),
		messages.Weekday(visit.Entrance.Weekday()),
		duration,
		visit.Entrance.Format(timeLayout),
		end,
	)
}

func formatAttendanceLogBody(log nyutai.AttendanceLog, messages i18n.Messages) string {
	lines := []string{
		fmt.Sprintf(messages.TotalHeader, messages.FormatDuration(log.Total)),
	}

	for _, year := range log.Years {
		lines = append(lines, fmt.Sprintf(messages.Year, year.Year))
		for _, month := range year.Months {
			lines = append(lines, fmt.Sprintf(messages.Month, messages.MonthName(month.Month)))
			for _, visit := range month.Visits {
				lines = append(lines, formatVisit(visit, messages))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// FormatAttendanceLog renders the weekly report as an embed.
func FormatAttendanceLog(log nyutai.AttendanceLog, messages i18n.Messages) *discordgo.MessageEmbed {
	body := formatAttendanceLogBody(log, messages)
	if runes := []rune(body); len(runes) > maxDescription {
		body = string(runes[:maxDescription-1]) + "…"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf(messages.Title, log.Student.Name),
		Description: body,
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: messages.Footer,
		},
	}
}
