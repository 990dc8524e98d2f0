package hhmm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxMinutes is the largest duration a single day-cell may carry.
const MaxMinutes = 24 * 60

var ErrInvalid = errors.New("duration must be HH:mm")

// Parse accepts "H:mm" or "HH:mm". Empty input is zero minutes.
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 || !digits(h) || !digits(m) {
		return 0, ErrInvalid
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, ErrInvalid
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, ErrInvalid
	}
	total := hours*60 + mins
	if total > MaxMinutes {
		return 0, ErrInvalid
	}
	return total, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format renders minutes as zero-padded HH:mm. Zero renders as "".
func Format(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
