package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// ErrNoValidSuggestion is returned when every attempt produced a schedule
// that could not be normalized.
var ErrNoValidSuggestion = errors.New("no valid schedule suggested")

const suggestSystemPrompt = `You plan a single 24-hour day as a ring of consecutive activities.

Current day:
%s
User request: "%s"

Rules:
- Return JSON only (no markdown).
- Times are "HH:MM" in 24-hour format on 30-minute boundaries.
- Activities must cover the whole day: each one starts where the previous ends, and the last one ends where the first starts.
- An activity may cross midnight (e.g. start "22:00", end "06:00").
- Keep labels short (one or two words).
- "warnings" must be an array of strings.

JSON schema:
{
  "slots": [
    {"start": "HH:MM", "end": "HH:MM", "label": "string"}
  ],
  "warnings": ["string"]
}`

// SuggestedSlot is one activity as returned by the model.
type SuggestedSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// SuggestResponse is the JSON document the model is asked for.
type SuggestResponse struct {
	Slots    []SuggestedSlot `json:"slots"`
	Warnings []string        `json:"warnings"`
}

// Suggestion is a normalized model proposal.
type Suggestion struct {
	Partition schedule.Partition
	// Warnings holds the model's warnings plus notes about repairs made
	// during normalization.
	Warnings []string
	Attempts int
}

// Suggester turns free-text requests into schedules.
type Suggester struct {
	client Client
	model  *schedule.Model
}

// NewSuggester creates a Suggester. Suggested slots are colored from model's
// palette.
func NewSuggester(client Client, model *schedule.Model) *Suggester {
	if model == nil {
		model = schedule.NewModel(nil)
	}
	return &Suggester{client: client, model: model}
}

// Suggest asks the model for a day matching request. When a reply cannot be
// normalized the problem is fed back and the model asked again, up to
// retries more times.
func (s *Suggester) Suggest(ctx context.Context, request string, current schedule.Partition, retries int) (*Suggestion, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, errors.New("suggestion request is empty")
	}
	messages := []Message{
		{Role: RoleSystem, Content: fmt.Sprintf(suggestSystemPrompt, describe(current), request)},
		{Role: RoleUser, Content: request},
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		var resp SuggestResponse
		if err := s.client.ChatJSON(ctx, messages, &resp); err != nil {
			return nil, fmt.Errorf("LLM suggestion (attempt %d): %w", attempt+1, err)
		}

		p, notes, err := s.Normalize(resp.Slots)
		if err == nil {
			return &Suggestion{
				Partition: p,
				Warnings:  append(resp.Warnings, notes...),
				Attempts:  attempt + 1,
			}, nil
		}
		lastErr = err

		if attempt < retries {
			raw, _ := json.Marshal(resp)
			messages = append(messages,
				Message{Role: RoleAssistant, Content: string(raw)},
				Message{Role: RoleUser, Content: feedback(err)},
			)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrNoValidSuggestion, retries+1, lastErr)
}

func feedback(err error) string {
	return fmt.Sprintf("The schedule you returned is invalid: %v\nReturn the corrected JSON only.", err)
}

// describe renders p as one "HH:MM-HH:MM label" line per slot.
func describe(p schedule.Partition) string {
	if p.IsZero() {
		return "(empty)\n"
	}
	var sb strings.Builder
	for _, sl := range p.Slots() {
		label := sl.Label
		if label == "" {
			label = "(unlabeled)"
		}
		fmt.Fprintf(&sb, "- %s-%s %s\n", sl.Start, sl.End, label)
	}
	return sb.String()
}

type span struct {
	from, to schedule.Time // offsets from the ring origin, 0 <= from < to <= 24
	label    string
}

// Normalize turns raw model slots into a valid partition. Times are snapped
// to the grid, overlaps are trimmed in start order and gaps are filled with
// unlabeled slots. The returned notes describe each repair.
func (s *Suggester) Normalize(raw []SuggestedSlot) (schedule.Partition, []string, error) {
	if len(raw) == 0 {
		return schedule.Partition{}, nil, errors.New("no slots returned")
	}

	type parsed struct {
		start, end schedule.Time
		label      string
	}
	var notes []string
	items := make([]parsed, 0, len(raw))
	for i, r := range raw {
		start, err := parseClock(r.Start)
		if err != nil {
			return schedule.Partition{}, nil, fmt.Errorf("slot %d start: %w", i+1, err)
		}
		end, err := parseClock(r.End)
		if err != nil {
			return schedule.Partition{}, nil, fmt.Errorf("slot %d end: %w", i+1, err)
		}
		label := strings.TrimSpace(r.Label)
		if schedule.Equal(start, end) && len(raw) > 1 {
			notes = append(notes, fmt.Sprintf("dropped %q: zero length after rounding", label))
			continue
		}
		items = append(items, parsed{start: start, end: end, label: label})
	}
	if len(items) == 0 {
		return schedule.Partition{}, nil, errors.New("every slot has zero length")
	}
	if len(items) == 1 && schedule.Equal(items[0].start, items[0].end) {
		p, err := schedule.New([]schedule.Slot{{Start: items[0].start, End: items[0].end, Label: items[0].label}})
		if err != nil {
			return schedule.Partition{}, nil, err
		}
		return s.model.Reassign(p), notes, nil
	}

	sort.SliceStable(items, func(a, b int) bool { return items[a].start < items[b].start })
	origin := items[0].start

	var spans []span
	var cursor schedule.Time
	for _, it := range items {
		from := schedule.Span(origin, it.start)
		to := min(from+schedule.Span(it.start, it.end), schedule.Day)

		if from > cursor {
			spans = append(spans, span{from: cursor, to: from})
			notes = append(notes, fmt.Sprintf("filled gap %s-%s", (origin+cursor).Wrap(), (origin+from).Wrap()))
		}
		if to <= cursor {
			notes = append(notes, fmt.Sprintf("dropped %q: covered by earlier slots", it.label))
			continue
		}
		if from < cursor {
			notes = append(notes, fmt.Sprintf("trimmed %q to start at %s", it.label, (origin+cursor).Wrap()))
			from = cursor
		}
		spans = append(spans, span{from: from, to: to, label: it.label})
		cursor = to
	}
	if cursor < schedule.Day {
		spans = append(spans, span{from: cursor, to: schedule.Day})
		notes = append(notes, fmt.Sprintf("filled gap %s-%s", (origin+cursor).Wrap(), origin))
	}

	slots := make([]schedule.Slot, len(spans))
	for i, sp := range spans {
		slots[i] = schedule.Slot{
			Start: (origin + sp.from).Wrap(),
			End:   (origin + sp.to).Wrap(),
			Label: sp.label,
		}
	}
	p, err := schedule.New(slots)
	if err != nil {
		return schedule.Partition{}, nil, err
	}
	return s.model.Reassign(p), notes, nil
}

// parseClock parses "HH:MM" with any minutes and snaps it to the grid.
func parseClock(value string) (schedule.Time, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("time %q must be in HH:MM format", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("time %q has an invalid hour", value)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has invalid minutes", value)
	}
	return (schedule.Time(h) + schedule.Time(m)/60).Snap(), nil
}
