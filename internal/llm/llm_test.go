package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/javiermolinar/dayring/internal/schedule"
)

// fakeClient replays canned replies in order and records what it was sent.
type fakeClient struct {
	replies []string
	calls   [][]Message
	err     error
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, error) {
	f.calls = append(f.calls, append([]Message(nil), messages...))
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no more replies")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"slots": []}`,
			expected: `{"slots": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the response: {"slots": [{"label": "Sleep"}]}`,
			expected: `{"slots": [{"label": "Sleep"}]}`,
		},
		{
			name:     "json with trailing text",
			input:    `{"slots": []} hope this helps`,
			expected: `{"slots": []}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"label": "a } b"} done`,
			expected: `{"label": "a } b"}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"slots\": []}\n```",
			expected: `{"slots": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"slots\": []}\n```",
			expected: `{"slots": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "no json",
			input:    `sorry`,
			expected: `sorry`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    schedule.Time
		wantErr bool
	}{
		{"07:00", 7, false},
		{"7:30", 7.5, false},
		{"06:40", 6.5, false},
		{"06:50", 7, false},
		{"23:50", 0, false},
		{"24:00", 0, false},
		{"noon", 0, true},
		{"25:00", 0, true},
		{"10:75", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("parseClock(%q) should fail", tc.input)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("parseClock(%q) = (%v, %v), want %v", tc.input, got, err, tc.want)
			}
		})
	}
}

func ringString(p schedule.Partition) string {
	parts := make([]string, 0, p.Len())
	for _, s := range p.Slots() {
		parts = append(parts, s.Start.String()+"-"+s.End.String()+" "+s.Label)
	}
	return strings.Join(parts, " | ")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   []SuggestedSlot
		want  string
		notes int
	}{
		{
			name: "already valid",
			raw: []SuggestedSlot{
				{"22:00", "06:00", "Sleep"},
				{"06:00", "22:00", "Day"},
			},
			want: "06:00-22:00 Day | 22:00-06:00 Sleep",
		},
		{
			name: "unsorted input",
			raw: []SuggestedSlot{
				{"12:00", "00:00", "Afternoon"},
				{"00:00", "12:00", "Morning"},
			},
			want: "00:00-12:00 Morning | 12:00-00:00 Afternoon",
		},
		{
			name: "gap filled",
			raw: []SuggestedSlot{
				{"08:00", "12:00", "Work"},
				{"13:00", "08:00", "Home"},
			},
			want:  "08:00-12:00 Work | 12:00-13:00  | 13:00-08:00 Home",
			notes: 1,
		},
		{
			name: "single partial slot",
			raw: []SuggestedSlot{
				{"08:00", "20:00", "Awake"},
			},
			want:  "08:00-20:00 Awake | 20:00-08:00 ",
			notes: 1,
		},
		{
			name: "overlap trimmed",
			raw: []SuggestedSlot{
				{"06:00", "10:00", "Gym"},
				{"09:00", "06:00", "Rest"},
			},
			want:  "06:00-10:00 Gym | 10:00-06:00 Rest",
			notes: 1,
		},
		{
			name: "covered slot dropped",
			raw: []SuggestedSlot{
				{"06:00", "18:00", "Work"},
				{"08:00", "09:00", "Coffee"},
				{"18:00", "06:00", "Home"},
			},
			want:  "06:00-18:00 Work | 18:00-06:00 Home",
			notes: 1,
		},
		{
			name: "off grid snapped",
			raw: []SuggestedSlot{
				{"21:50", "06:10", "Sleep"},
				{"06:10", "21:50", "Day"},
			},
			want: "06:00-22:00 Day | 22:00-06:00 Sleep",
		},
		{
			name: "full ring",
			raw: []SuggestedSlot{
				{"07:00", "07:00", "Day"},
			},
			want: "07:00-07:00 Day",
		},
	}

	s := NewSuggester(nil, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, notes, err := s.Normalize(tc.raw)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if got := ringString(p); got != tc.want {
				t.Errorf("Normalize() = %q, want %q", got, tc.want)
			}
			if len(notes) != tc.notes {
				t.Errorf("got notes %q, want %d", notes, tc.notes)
			}
			for _, sl := range p.Slots() {
				if sl.Color == "" {
					t.Error("every normalized slot should be colored")
				}
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	s := NewSuggester(nil, nil)
	tests := []struct {
		name string
		raw  []SuggestedSlot
	}{
		{"empty", nil},
		{"bad time", []SuggestedSlot{{"7am", "08:00", "x"}}},
		{"all zero length", []SuggestedSlot{{"07:00", "07:10", "a"}, {"08:00", "08:00", "b"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := s.Normalize(tc.raw); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSuggest_RetriesWithFeedback(t *testing.T) {
	client := &fakeClient{replies: []string{
		`{"slots": [{"start": "soon", "end": "later", "label": "x"}]}`,
		"```json\n{\"slots\": [{\"start\": \"23:00\", \"end\": \"07:00\", \"label\": \"Sleep\"}, {\"start\": \"07:00\", \"end\": \"23:00\", \"label\": \"Day\"}], \"warnings\": [\"short night\"]}\n```",
	}}
	s := NewSuggester(client, nil)

	got, err := s.Suggest(context.Background(), "sleep at 11", schedule.Partition{}, 2)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", got.Attempts)
	}
	if want := "07:00-23:00 Day | 23:00-07:00 Sleep"; ringString(got.Partition) != want {
		t.Errorf("Partition = %q, want %q", ringString(got.Partition), want)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != "short night" {
		t.Errorf("Warnings = %q", got.Warnings)
	}

	if len(client.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(client.calls))
	}
	second := client.calls[1]
	if len(second) != 4 {
		t.Fatalf("retry should carry 4 messages, got %d", len(second))
	}
	if second[2].Role != RoleAssistant || second[3].Role != RoleUser {
		t.Errorf("unexpected retry roles: %s, %s", second[2].Role, second[3].Role)
	}
	if !strings.Contains(second[3].Content, "invalid") {
		t.Errorf("feedback message = %q", second[3].Content)
	}
}

func TestSuggest_GivesUp(t *testing.T) {
	client := &fakeClient{replies: []string{`{"slots": []}`, `{"slots": []}`}}
	s := NewSuggester(client, nil)

	_, err := s.Suggest(context.Background(), "anything", schedule.Partition{}, 1)
	if !errors.Is(err, ErrNoValidSuggestion) {
		t.Fatalf("expected ErrNoValidSuggestion, got %v", err)
	}
}

func TestSuggest_ClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	s := NewSuggester(client, nil)

	_, err := s.Suggest(context.Background(), "anything", schedule.Partition{}, 3)
	if err == nil || errors.Is(err, ErrNoValidSuggestion) {
		t.Fatalf("expected a transport error, got %v", err)
	}
	if len(client.calls) != 1 {
		t.Errorf("transport errors should not be retried, got %d calls", len(client.calls))
	}
}

func TestSuggest_PromptDescribesCurrentDay(t *testing.T) {
	client := &fakeClient{replies: []string{`{"slots": [{"start": "00:00", "end": "00:00", "label": "Day"}]}`}}
	s := NewSuggester(client, nil)
	current := schedule.MustNew([]schedule.Slot{
		{Start: 22, End: 6, Label: "Sleep"},
		{Start: 6, End: 22},
	})

	if _, err := s.Suggest(context.Background(), "  more reading  ", current, 0); err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	prompt := client.calls[0][0].Content
	for _, want := range []string{"- 22:00-06:00 Sleep", "- 06:00-22:00 (unlabeled)", `User request: "more reading"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSuggest_EmptyRequest(t *testing.T) {
	s := NewSuggester(&fakeClient{}, nil)
	if _, err := s.Suggest(context.Background(), "   ", schedule.Partition{}, 0); err == nil {
		t.Error("expected an error for an empty request")
	}
}

func TestReview(t *testing.T) {
	client := &fakeClient{replies: []string{"  THEME: steady\n"}}
	r := NewReviewer(client)
	p := schedule.MustNew([]schedule.Slot{
		{Start: 22, End: 6, Label: "Sleep"},
		{Start: 6, End: 22},
	})

	got, err := r.Review(context.Background(), p)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if got != "THEME: steady" {
		t.Errorf("Review() = %q", got)
	}
	prompt := client.calls[0][1].Content
	if !strings.Contains(prompt, "* 06:00-22:00  (unlabeled)") || !strings.Contains(prompt, "8h") {
		t.Errorf("prompt does not list the day:\n%s", prompt)
	}
}
