package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

const (
	selectPrefix = "student-select"

	// discord limits
	maxSelectOptions = 25
	maxOptionLabel   = 100
)

type selectorState int

const (
	selectorPresented selectorState = iota
	selectorResolved
	selectorExpired
)

// Selector is one student dropdown sent in reply to a /log command. It carries
// the candidates and the records fetched for that command so the selection
// can be answered without refetching.
type Selector struct {
	ID        string
	MessageID string
	Students  []nyutai.Student
	Records   []nyutai.Record

	// Interaction is the command interaction whose followup carries the
	// selector. Its token is what allows editing that message later.
	Interaction *discordgo.Interaction

	candidates mapset.Set[nyutai.ID]
	names      map[nyutai.ID]string
	state      selectorState
	timer      *time.Timer
}

// Candidate returns the offered student with id. Only ids in the candidate
// set are accepted.
func (sel *Selector) Candidate(id nyutai.ID) (nyutai.Student, bool) {
	if !sel.candidates.Contains(id) {
		return nyutai.Student{}, false
	}
	return nyutai.Student{ID: id, Name: sel.names[id]}, true
}

// SelectorRegistry tracks presented selectors. A selector leaves the registry
// exactly once, either resolved by a selection or expired by its timeout.
type SelectorRegistry struct {
	Timeout time.Duration

	mu        sync.Mutex
	selectors map[string]*Selector
}

func NewSelectorRegistry(timeout time.Duration) *SelectorRegistry {
	return &SelectorRegistry{
		Timeout:   timeout,
		selectors: map[string]*Selector{},
	}
}

// Present registers a selector for students. onExpire is called from the
// timer goroutine if the selector is still unresolved after Timeout.
func (r *SelectorRegistry) Present(interaction *discordgo.Interaction, students []nyutai.Student, records []nyutai.Record, onExpire func(*Selector)) *Selector {
	ids := mapset.NewThreadUnsafeSetWithSize[nyutai.ID](len(students))
	names := make(map[nyutai.ID]string, len(students))
	for _, student := range students {
		ids.Add(student.ID)
		names[student.ID] = student.Name
	}

	sel := &Selector{
		ID:          uuid.NewString(),
		Students:    students,
		Records:     records,
		Interaction: interaction,
		candidates:  ids,
		names:       names,
		state:       selectorPresented,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.selectors[sel.ID] = sel
	sel.timer = time.AfterFunc(r.Timeout, func() {
		if r.expire(sel.ID) && onExpire != nil {
			onExpire(sel)
		}
	})

	return sel
}

// SetMessage records the message carrying the selector while it is presented.
func (r *SelectorRegistry) SetMessage(id, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sel, ok := r.selectors[id]; ok && sel.state == selectorPresented {
		sel.MessageID = messageID
	}
}

// Resolve moves a presented selector to resolved and returns it. It returns
// false for unknown, expired or already resolved selectors.
func (r *SelectorRegistry) Resolve(id string) (*Selector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sel, ok := r.selectors[id]
	if !ok || sel.state != selectorPresented {
		return nil, false
	}

	sel.state = selectorResolved
	sel.timer.Stop()
	delete(r.selectors, id)
	return sel, true
}

func (r *SelectorRegistry) expire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sel, ok := r.selectors[id]
	if !ok || sel.state != selectorPresented {
		return false
	}

	sel.state = selectorExpired
	delete(r.selectors, id)
	return true
}

// discard drops a selector that never reached the user.
func (r *SelectorRegistry) discard(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sel, ok := r.selectors[id]; ok {
		sel.timer.Stop()
		delete(r.selectors, id)
	}
}

func (r *SelectorRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.selectors)
}

func selectCustomID(selectorID string, page int) string {
	return fmt.Sprintf("%s:%s:%d", selectPrefix, selectorID, page)
}

func parseSelectCustomID(customID string) (string, bool) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != selectPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func optionLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxOptionLabel {
		return name
	}
	return string(runes[:maxOptionLabel-1]) + "…"
}

// selectorComponents builds one select menu per page of 25 students.
func selectorComponents(sel *Selector, messages i18n.Messages, disabled bool) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{}
	minValues := 1

	for page, start := 0, 0; start < len(sel.Students); page, start = page+1, start+maxSelectOptions {
		end := min(start+maxSelectOptions, len(sel.Students))

		options := make([]discordgo.SelectMenuOption, 0, end-start)
		for _, student := range sel.Students[start:end] {
			options = append(options, discordgo.SelectMenuOption{
				Label: optionLabel(student.Name),
				Value: student.ID.String(),
			})
		}

		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    selectCustomID(sel.ID, page),
					Placeholder: messages.Placeholder,
					MinValues:   &minValues,
					MaxValues:   1,
					Options:     options,
					Disabled:    disabled,
				},
			},
		})
	}

	return rows
}
