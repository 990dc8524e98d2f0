package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestCustomTags(t *testing.T) {
	type P struct {
		UserID    string `validate:"hex32"`
		Hours     string `validate:"hhmm"`
		WeekStart string `validate:"weekstart"`
	}
	cv := NewValidator()
	valid := P{UserID: strings.Repeat("a", 32), Hours: "8:00", WeekStart: "2025-09-01"}
	if err := cv.Validate(valid); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
	for _, h := range []string{"", "08:30", "24:00", "00:05"} {
		p := valid
		p.Hours = h
		if err := cv.Validate(p); err != nil {
			t.Fatalf("hours %q rejected: %v", h, err)
		}
	}

	cases := []struct {
		field  string
		values []string
		msg    string
		set    func(p *P, v string)
	}{
		{"UserID", []string{"", strings.Repeat("A", 32), "deadbeef", strings.Repeat("g", 32), strings.Repeat("a", 33)}, "32-char lowercase hex", func(p *P, v string) { p.UserID = v }},
		{"Hours", []string{"8", "8h", "24:01", "07:60", "123:00", "-1:00"}, "HH:mm", func(p *P, v string) { p.Hours = v }},
		{"WeekStart", []string{"", "2025-09-02", "09/01/2025", "2025-13-01"}, "Monday", func(p *P, v string) { p.WeekStart = v }},
	}
	for _, tc := range cases {
		for _, v := range tc.values {
			p := valid
			tc.set(&p, v)
			err := cv.Validate(p)
			if err == nil {
				t.Fatalf("%s=%q: expected error", tc.field, v)
			}
			if fe := ToFieldErrors(err); len(fe) != 1 || !containsFieldMsg(fe, tc.field, tc.msg) {
				t.Fatalf("%s=%q: want one %q detail, got %+v", tc.field, v, tc.msg, fe)
			}
		}
	}
}

func TestBuiltinTagMessages(t *testing.T) {
	type P struct {
		Name    string   `validate:"required"`
		Min     int      `validate:"gte=10"`
		Max     int      `validate:"lte=5"`
		Action  string   `validate:"oneof=approve reject"`
		Email   string   `validate:"email"`
		Reverts []string `validate:"min=1"`
		Code    string   `validate:"alpha"`
	}
	err := NewValidator().Validate(P{Min: 9, Max: 6, Action: "delete", Email: "nope", Code: "42"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	want := map[string]string{
		"Name":    "is required",
		"Min":     "greater than or equal to 10",
		"Max":     "less than or equal to 5",
		"Action":  "one of approve reject",
		"Email":   "valid email",
		"Reverts": "at least 1",
		"Code":    "alpha validation failed",
	}
	for field, msg := range want {
		if !containsFieldMsg(fe, field, msg) {
			t.Fatalf("missing %q for %s: %+v", msg, field, fe)
		}
	}
}

func TestFieldNamesFollowTags(t *testing.T) {
	type req struct {
		EmployeeID string `param:"employee_id" json:"-" validate:"required"`
		Limit      int    `query:"limit" validate:"lte=200"`
		DayIndices []int  `json:"dayIndices" validate:"dive,gte=0,lte=6"`
	}
	err := NewValidator().Validate(req{Limit: 500, DayIndices: []int{1, 9}})
	fe := ToFieldErrors(err)
	for _, f := range []string{"employee_id", "limit", "dayIndices[1]"} {
		if !containsFieldMsg(fe, f, "") {
			t.Fatalf("missing detail for %s: %+v", f, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
