package timeparse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tahseenomar/slack-visitor-bot/internal/timeparse"
)

func newParser(t *testing.T) *timeparse.Parser {
	t.Helper()
	p, err := timeparse.New("America/New_York")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	return p
}

func TestParseEquivalentSpellings(t *testing.T) {
	p := newParser(t)

	spellings := []string{"2:30pm", "2:30 PM", "2.30pm", "2.30 pm", "2:30 pm", "  2:30PM  "}

	want, err := p.Parse("2024-06-01", "2:30pm")
	if err != nil {
		t.Fatalf("reference parse failed: %v", err)
	}

	for _, s := range spellings {
		got, err := p.Parse("2024-06-01", s)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseConventions(t *testing.T) {
	p := newParser(t)

	tests := []struct {
		input      string
		hour, min  int
	}{
		{"2:30 pm", 14, 30},
		{"2 pm", 14, 0},
		{"14:30", 14, 30},
		{"2:30pm", 14, 30},
		{"2.30 pm", 14, 30},
		{"2.30pm", 14, 30},
		{"14.30", 14, 30},
		{"9:05", 9, 5},
		{"11 AM", 11, 0},
	}

	for _, tt := range tests {
		got, err := p.Parse("2024-06-01", tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if got.Hour() != tt.hour || got.Minute() != tt.min {
			t.Errorf("Parse(%q) = %02d:%02d, want %02d:%02d", tt.input, got.Hour(), got.Minute(), tt.hour, tt.min)
		}
		if got.Year() != 2024 || got.Month() != time.June || got.Day() != 1 {
			t.Errorf("Parse(%q) lost the date: %v", tt.input, got)
		}
		if got.Location() != p.Location() {
			t.Errorf("Parse(%q) not anchored in office zone: %v", tt.input, got.Location())
		}
	}
}

func TestParseUnparseable(t *testing.T) {
	p := newParser(t)

	for _, input := range []string{"noon-ish", "", "half past two", "25:99", "2:30:15 pm"} {
		_, err := p.Parse("2024-06-01", input)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
			continue
		}
		if !errors.Is(err, timeparse.ErrUnparseable) {
			t.Errorf("Parse(%q) error = %v, want ErrUnparseable", input, err)
		}
	}
}

func TestParseBadDate(t *testing.T) {
	p := newParser(t)

	if _, err := p.Parse("", "2:30 pm"); err == nil {
		t.Error("Parse with empty date succeeded, want error")
	}
	if _, err := p.Parse("not-a-date", "2:30 pm"); err == nil {
		t.Error("Parse with garbage date succeeded, want error")
	}
}
