package exam

import "testing"

func TestNewCodeFormat(t *testing.T) {
	for range 100 {
		code := NewCode(0)
		if !ValidCode(code) {
			t.Errorf("NewCode(0) = %q, not a valid code", code)
		}
		if len(code) != 6 {
			t.Errorf("NewCode(0) = %q, want 6 letters without suffix", code)
		}
	}
}

func TestNewCodeWithTimer(t *testing.T) {
	for _, minutes := range []int{1, 5, 10, 59, 60} {
		code := NewCode(minutes)
		if !ValidCode(code) {
			t.Errorf("NewCode(%d) = %q, not a valid code", minutes, code)
		}
		if len(code) != 9 {
			t.Errorf("NewCode(%d) = %q, want LLLLLL-MM form", minutes, code)
		}
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABCDEF", true},
		{"KWXRPT-05", true},
		{"KWXRPT-60", true},
		{"KWXRPT-01", true},
		{"abcdef", false},
		{"ABCDE", false},
		{"ABCDEFG", false},
		{"ABCDEF-00", false},
		{"ABCDEF-61", false},
		{"ABCDEF-5", false},
		{"ABCDEF-005", false},
		{"ABC123", false},
		{"", false},
		{"ABCDEF-", false},
	}
	for _, tt := range tests {
		if got := ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		code        string
		wantBase    string
		wantMinutes int
		wantErr     bool
	}{
		{"ABCDEF", "ABCDEF", 0, false},
		{"ABCDEF-05", "ABCDEF", 5, false},
		{"ABCDEF-60", "ABCDEF", 60, false},
		{"abcdef", "", 0, true},
		{"ABCDEF-99", "", 0, true},
	}
	for _, tt := range tests {
		base, minutes, err := ParseCode(tt.code)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			continue
		}
		if base != tt.wantBase || minutes != tt.wantMinutes {
			t.Errorf("ParseCode(%q) = (%q, %d), want (%q, %d)", tt.code, base, minutes, tt.wantBase, tt.wantMinutes)
		}
	}
}
