package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tools", "tools"},
		{"Tools-Editors", "tools-editors"},
		{"Command Line Tools", "command-line-tools"},
		{"  Spaced   Out  ", "spaced-out"},
		{"C++ & Friends!", "c-friends"},
		{"UPPER case", "upper-case"},
		{"multi---hyphen", "multi-hyphen"},
		{"-leading and trailing-", "leading-and-trailing"},
		{"???", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
