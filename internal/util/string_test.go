package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly", max: 7, want: "exactly"},
		{in: "truncated text", max: 9, want: "truncated..."},
		{in: "크리에이터 분석", max: 5, want: "크리에이터..."},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello, World!  ", "hello world"},
		{"DIY #Woodworking 101", "diy woodworking 101"},
		{"\U0001F525\U0001F525", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTopKeywords(t *testing.T) {
	texts := []string{
		"Building a cabin in the woods",
		"Cabin build part 2: the roof",
		"Woods walk and cabin tour",
		"roof",
	}

	got := TopKeywords(texts, 3)
	want := []string{"cabin", "roof", "woods"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopKeywords mismatch (-want +got):\n%s", diff)
	}

	if got := TopKeywords(nil, 5); len(got) != 0 {
		t.Errorf("TopKeywords(nil) = %v, want empty", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Errorf("FirstNonEmpty = %q, want b", got)
	}
	if got := FirstNonEmpty("", " "); got != "" {
		t.Errorf("FirstNonEmpty = %q, want empty", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{5, 5},
		{3.14159, 3.14},
		{2.675001, 2.68},
		{-1.005, -1},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
