package span

import "testing"

func TestExtended(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Make(0, 2), Make(5, 7), Make(0, 7)},
		{"reversed", Make(5, 7), Make(0, 2), Make(0, 7)},
		{"nested", Make(0, 10), Make(3, 4), Make(0, 10)},
		{"equal", Make(1, 3), Make(1, 3), Make(1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Extended(tt.b); got != tt.want {
				t.Errorf("Extended() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	src := "var x = 1"

	if got := Make(4, 5).Slice(src); got != "x" {
		t.Errorf("expected %q, got %q", "x", got)
	}

	if got := Make(8, 20).Slice(src); got != "1" {
		t.Errorf("expected clamped slice %q, got %q", "1", got)
	}
}

func TestPosition(t *testing.T) {
	src := "a;\nbé;\n  c"

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{3, 2, 1},
		{6, 2, 3},
		{10, 3, 3},
	}

	for _, tt := range tests {
		line, col := Make(tt.offset, tt.offset+1).Position(src)
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d",
				tt.offset, line, col, tt.line, tt.col)
		}
	}
}
