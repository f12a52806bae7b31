package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// one unit per rune
func runeWidth(s string) float64 { return float64(len([]rune(s))) }

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 10, nil},
		{"fits", "hello world", 11, []string{"hello world"}},
		{"greedy", "aa bb cc dd", 5, []string{"aa bb", "cc dd"}},
		{"newline", "one\ntwo", 10, []string{"one", "two"}},
		{"blank line kept", "a\n\nb", 10, []string{"a", "", "b"}},
		{"long word", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"long word after text", "x abcdef", 4, []string{"x", "abcd", "ef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, runeWidth)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestColumnWidths(t *testing.T) {
	tb := Table{
		Width:   515,
		Columns: []Column{{Width: 40}, {}, {Width: 40}, {Width: 80}, {Width: 80}},
	}
	got := tb.ColumnWidths()
	want := []float64{40, 275, 40, 80, 80}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ColumnWidths mismatch (-want +got):\n%s", diff)
	}
}
