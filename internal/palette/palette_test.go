package palette

import (
	"errors"
	"testing"
)

func TestAtWraps(t *testing.T) {
	p := Palette{"#000001", "#000002", "#000003"}
	tests := []struct {
		i    int
		want Color
	}{
		{0, "#000001"},
		{2, "#000003"},
		{3, "#000001"},
		{7, "#000002"},
		{-1, "#000003"},
	}
	for _, tt := range tests {
		if got := p.At(tt.i); got != tt.want {
			t.Errorf("At(%d) = %s, want %s", tt.i, got, tt.want)
		}
	}
	if got := (Palette{}).At(3); got != "" {
		t.Errorf("empty palette At = %q", got)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		existing []Color
		want     Color
	}{
		{name: "empty", existing: nil, want: Default[0]},
		{name: "after first", existing: []Color{Default[0]}, want: Default[1]},
		{name: "wraps", existing: []Color{Default[len(Default)-1]}, want: Default[0]},
		{name: "uppercase last", existing: []Color{"#E6E6FA"}, want: Default[2]},
		{name: "foreign color restarts", existing: []Color{"#123456"}, want: Default[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default.Next(tt.existing); got != tt.want {
				t.Errorf("Next() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	got := Default.Cycle(len(Default) + 2)
	if got[len(Default)] != Default[0] || got[len(Default)+1] != Default[1] {
		t.Errorf("Cycle did not wrap: %v", got)
	}
	if len(Default.Cycle(0)) != 0 {
		t.Error("Cycle(0) not empty")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#89B4FA", want: "#89b4fa"},
		{in: " 89b4fa ", want: "#89b4fa"},
		{in: "#fff", want: "#ffffff"},
		{in: "blue", wantErr: true},
		{in: "#12345", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidColor", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	if r, g, b := Color("#ff8000").RGB(); r != 0xff || g != 0x80 || b != 0 {
		t.Errorf("RGB = %d %d %d", r, g, b)
	}
	if r, _, _ := Color("bad").RGB(); r != 0x80 {
		t.Errorf("invalid RGB r = %d, want mid gray", r)
	}
	if !Color("#ffe4e1").IsLight() || Color("#1e1e2e").IsLight() {
		t.Error("IsLight misclassified")
	}
	if got := Color("#000000").Blend("#ffffff", 0); got != "#000000" {
		t.Errorf("Blend(0) = %s", got)
	}
	if got := Color("#000000").Blend("#ffffff", 2); got != "#ffffff" {
		t.Errorf("Blend clamps ratio: got %s", got)
	}
	if got := Color("bad").Blend("#ffffff", 0.5); got != "bad" {
		t.Errorf("Blend with invalid input = %s", got)
	}
}
