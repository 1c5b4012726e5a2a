package share

import (
	"reflect"
	"testing"
)

func TestNormalizeIDList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims whitespace", []string{"  a  ", "b"}, []string{"a", "b"}},
		{"drops empties", []string{"", "  ", "a"}, []string{"a"}},
		{"case-insensitive dedupe keeps first", []string{"A", "a", " A "}, []string{"A"}},
		{"preserves first-seen order", []string{"b", "A", "a", "B", "c"}, []string{"b", "A", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIDList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeIDList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIDList_Idempotent(t *testing.T) {
	in := []string{" x ", "X", "y", "", "Y", "z"}
	once := NormalizeIDList(in)
	twice := NormalizeIDList(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent: %v then %v", once, twice)
	}
}

func TestParseVintage(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2019", 2019, true},
		{" 2019 ", 2019, true},
		{"", 0, false},
		{"  ", 0, false},
		{"MMXIX", 0, false},
		{"19.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseVintage(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseVintage(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-5", 1},
		{"1", 1},
		{"7", 7},
		{"12", 12},
		{"20", 12},
	}

	for _, tt := range tests {
		if got := ParseQuantity(tt.in); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
