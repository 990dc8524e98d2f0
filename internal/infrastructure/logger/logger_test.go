package logger

import "testing"

func TestNew(t *testing.T) {
	cases := []struct {
		level, format string
		wantErr       bool
	}{
		{"info", "json", false},
		{"debug", "console", false},
		{"loud", "json", true},
	}
	for _, tc := range cases {
		l, err := New(tc.level, tc.format)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("New(%q,%q) expected error", tc.level, tc.format)
			}
			continue
		}
		if err != nil || l == nil {
			t.Fatalf("New(%q,%q) err=%v", tc.level, tc.format, err)
		}
	}

	l, _ := New("warn", "json")
	if l.Core().Enabled(-1) { // debug
		t.Fatalf("debug should be disabled at warn")
	}
}
