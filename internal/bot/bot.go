package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/metrics"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
)

const (
	commandName = "log"
	optionName  = "name"

	// MaxCandidates caps the students offered by one selector.
	MaxCandidates = maxSelectOptions
)

type Client interface {
	GetStudents(ctx context.Context) ([]nyutai.Student, error)
	GetLogs(ctx context.Context, r nyutai.DateRange) ([]nyutai.Record, error)
}

// Responder is the part of *discordgo.Session the interaction handlers use.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageEdit(interaction *discordgo.Interaction, messageID string, data *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CommandSyncer is the part of *discordgo.Session used to register commands.
type CommandSyncer interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

type Bot struct {
	Client        Client
	ApplicationID string // defaults to the bot user id
	GuildID       string // empty registers the command globally

	Messages     i18n.Messages
	Location     *time.Location
	LookbackDays int
	Selectors    *SelectorRegistry
	Metrics      *metrics.Metrics

	Now func() time.Time
}

func (b *Bot) now() time.Time {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	if b.Location != nil {
		return now().In(b.Location)
	}
	return now()
}

func (b *Bot) location() *time.Location {
	if b.Location != nil {
		return b.Location
	}
	return time.Local
}

var noMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}

func (b *Bot) followup(s Responder, i *discordgo.Interaction, content string) {
	_, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content:         content,
		AllowedMentions: noMentions,
	})
	if err != nil {
		slog.Error("failed to send followup", "err", err)
	}
}

func (b *Bot) respond(s Responder, i *discordgo.Interaction, data *discordgo.InteractionResponseData) {
	data.AllowedMentions = noMentions
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("failed to respond to interaction", "err", err)
	}
}

func commandNameOption(i *discordgo.InteractionCreate) string {
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == optionName && option.Type == discordgo.ApplicationCommandOptionString {
			return option.StringValue()
		}
	}
	return ""
}

// HandleLogCommand answers /log: it defers, fetches the directory and the
// logs, then offers the students matching the name in a selector.
func (b *Bot) HandleLogCommand(s Responder, i *discordgo.InteractionCreate) {
	start := time.Now()
	ctx := context.Background()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Error("failed to defer log command", "err", err)
		b.Metrics.Command("defer_failed")
		return
	}

	name := commandNameOption(i)
	if strings.TrimSpace(name) == "" {
		b.followup(s, i.Interaction, b.Messages.NameRequired)
		b.Metrics.Command("name_required")
		return
	}

	students, err := b.Client.GetStudents(ctx)
	if err != nil {
		b.followup(s, i.Interaction, b.Messages.StudentsFailed)
		slog.Error("failed to get students", "err", err)
		b.Metrics.Command("students_failed")
		return
	}

	r := nyutai.LastDays(b.now(), b.LookbackDays)
	records, err := b.Client.GetLogs(ctx, r)
	if err != nil {
		b.followup(s, i.Interaction, b.Messages.LogsFailed)
		slog.Error("failed to get logs", "err", err, "range", r.String())
		b.Metrics.Command("logs_failed")
		return
	}

	matched := nyutai.FilterStudents(students, name)
	if len(matched) == 0 {
		b.followup(s, i.Interaction, fmt.Sprintf(b.Messages.NoStudent, name))
		slog.Info("no matching student", "name", name, "students", len(students))
		b.Metrics.Command("no_student")
		return
	}

	if len(matched) > MaxCandidates {
		slog.Info("truncating matched students", "name", name, "matched", len(matched), "max", MaxCandidates)
		matched = matched[:MaxCandidates]
	}

	sel := b.Selectors.Present(i.Interaction, matched, records, func(sel *Selector) {
		b.expireSelector(s, sel)
	})

	msg, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content:         b.Messages.Prompt,
		Components:      selectorComponents(sel, b.Messages, false),
		AllowedMentions: noMentions,
	})
	if err != nil {
		b.Selectors.discard(sel.ID)
		slog.Error("failed to send student selector", "err", err)
		b.followup(s, i.Interaction, b.Messages.SendFailed)
		b.Metrics.Command("send_failed")
		return
	}
	b.Selectors.SetMessage(sel.ID, msg.ID)

	b.Metrics.Command("ok")
	slog.Info("successfully handled log command",
		"name", name,
		"matched", len(matched),
		"records", len(records),
		"selector", sel.ID,
		"dur", time.Since(start).String(),
	)
}

// disableSelector re-renders the selector message with its menus disabled.
func (b *Bot) disableSelector(s Responder, sel *Selector) {
	if sel.Interaction == nil || sel.MessageID == "" {
		return
	}

	components := selectorComponents(sel, b.Messages, true)
	_, err := s.FollowupMessageEdit(sel.Interaction, sel.MessageID, &discordgo.WebhookEdit{
		Components: &components,
	})
	if err != nil {
		slog.Error("failed to disable student selector", "err", err, "selector", sel.ID)
	}
}

func (b *Bot) expireSelector(s Responder, sel *Selector) {
	b.Metrics.Selection("expired")
	slog.Info("student selector expired", "selector", sel.ID)
	b.disableSelector(s, sel)
}

func selectedStudent(sel *Selector, values []string) (nyutai.Student, bool) {
	if len(values) != 1 {
		return nyutai.Student{}, false
	}
	id, err := nyutai.ParseID(values[0])
	if err != nil {
		return nyutai.Student{}, false
	}
	return sel.Candidate(id)
}

// HandleStudentSelect answers a choice made in a selector. Choices on
// selectors that are unknown, expired or already used are ignored.
func (b *Bot) HandleStudentSelect(s Responder, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()

	selectorID, ok := parseSelectCustomID(data.CustomID)
	if !ok {
		return
	}

	sel, ok := b.Selectors.Resolve(selectorID)
	if !ok {
		slog.Info("ignoring choice on inactive selector", "selector", selectorID)
		b.Metrics.Selection("inactive")
		return
	}

	if i.Message != nil && sel.MessageID == "" {
		sel.MessageID = i.Message.ID
	}
	defer b.disableSelector(s, sel)

	student, ok := selectedStudent(sel, data.Values)
	if !ok {
		b.respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: b.Messages.SelectFailed,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		slog.Error("selection is not a candidate", "selector", sel.ID, "values", data.Values)
		b.Metrics.Selection("invalid")
		return
	}

	attendance, ok := nyutai.BuildAttendanceLog(student, sel.Records, b.location())
	if !ok {
		b.respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: b.Messages.NoLogs,
		})
		b.Metrics.Selection("no_logs")
	} else {
		b.respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{FormatAttendanceLog(attendance, b.Messages)},
		})
		b.Metrics.Selection("ok")
	}

	slog.Info("successfully handled student selection",
		"selector", sel.ID,
		"student", student.ID.String(),
		"visits", attendance.VisitCount(),
	)
}

func (b *Bot) handleInteraction(s Responder, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			b.HandleLogCommand(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.HandleStudentSelect(s, i)
	}
}

func (b *Bot) HandleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i)
}

// Command is the /log definition synced to discord.
func (b *Bot) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: b.Messages.CommandDescription,
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        optionName,
				Description: b.Messages.NameDescription,
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

func (b *Bot) HandleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.syncCommands(s, r)
}

// syncCommands registers /log. Failures are logged, the bot keeps running.
func (b *Bot) syncCommands(s CommandSyncer, r *discordgo.Ready) {
	slog.Info("logged in", "user", r.User.Username, "id", r.User.ID)

	appID := b.ApplicationID
	if appID == "" {
		appID = r.User.ID
	}

	synced, err := s.ApplicationCommandBulkOverwrite(appID, b.GuildID, []*discordgo.ApplicationCommand{b.Command()})
	if err != nil {
		slog.Error("failed to sync commands", "err", err)
		return
	}

	slog.Info("synced commands", "count", len(synced))
}

// Run connects to discord and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return err
	}

	dg.AddHandler(b.HandleReady)
	dg.AddHandler(b.HandleInteractionCreate)

	err = dg.Open()
	if err != nil {
		return err
	}
	defer dg.Close()

	slog.Info("the bot is running!")
	<-ctx.Done()

	slog.Info("shutting down")
	return nil
}
