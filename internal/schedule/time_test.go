package schedule

import "testing"

func TestTimeWrap(t *testing.T) {
	tests := []struct {
		name string
		in   Time
		want Time
	}{
		{name: "in range", in: 7.5, want: 7.5},
		{name: "midnight", in: 0, want: 0},
		{name: "24 wraps", in: 24, want: 0},
		{name: "past 24", in: 25.5, want: 1.5},
		{name: "negative", in: -1, want: 23},
		{name: "almost 24", in: 23.99999999999, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Wrap(); !Equal(got, tt.want) {
				t.Errorf("Time(%v).Wrap() = %v, want %v", float64(tt.in), float64(got), float64(tt.want))
			}
		})
	}
}

func TestTimeSnap(t *testing.T) {
	tests := []struct {
		in, want Time
	}{
		{in: 6.2, want: 6},
		{in: 6.26, want: 6.5},
		{in: 23.8, want: 0},
		{in: -0.2, want: 0},
		{in: 11.74, want: 11.5},
	}

	for _, tt := range tests {
		if got := tt.in.Snap(); got != tt.want {
			t.Errorf("Time(%v).Snap() = %v, want %v", float64(tt.in), float64(got), float64(tt.want))
		}
	}
}

func TestTimeOnGrid(t *testing.T) {
	if !Time(6.5).OnGrid() {
		t.Error("6.5 should be on the grid")
	}
	if Time(6.25).OnGrid() {
		t.Error("6.25 should not be on the grid")
	}
}

func TestTimeString(t *testing.T) {
	tests := []struct {
		in   Time
		want string
	}{
		{in: 0, want: "00:00"},
		{in: 6.5, want: "06:30"},
		{in: 23.5, want: "23:30"},
		{in: 24, want: "00:00"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Time(%v).String() = %q, want %q", float64(tt.in), got, tt.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Time
		wantErr bool
	}{
		{name: "morning", input: "06:00", want: 6},
		{name: "half hour", input: "22:30", want: 22.5},
		{name: "24 wraps", input: "24:00", want: 0},
		{name: "padded", input: " 07:30 ", want: 7.5},
		{name: "quarter rejected", input: "07:15", wantErr: true},
		{name: "no colon", input: "0730", wantErr: true},
		{name: "bad hour", input: "25:00", wantErr: true},
		{name: "24:30", input: "24:30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTime(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, float64(got), float64(tt.want))
			}
		})
	}
}

func TestSpanAndDistance(t *testing.T) {
	tests := []struct {
		a, b       Time
		span, dist Time
	}{
		{a: 22, b: 6, span: 8, dist: 8},
		{a: 6, b: 22, span: 16, dist: 8},
		{a: 23.5, b: 0.5, span: 1, dist: 1},
		{a: 7, b: 7, span: 0, dist: 0},
		{a: 0, b: 12, span: 12, dist: 12},
	}

	for _, tt := range tests {
		if got := Span(tt.a, tt.b); got != tt.span {
			t.Errorf("Span(%v, %v) = %v, want %v", float64(tt.a), float64(tt.b), float64(got), float64(tt.span))
		}
		if got := Distance(tt.a, tt.b); got != tt.dist {
			t.Errorf("Distance(%v, %v) = %v, want %v", float64(tt.a), float64(tt.b), float64(got), float64(tt.dist))
		}
	}
}
