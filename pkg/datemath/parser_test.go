package datemath_test

import (
	"testing"
	"time"

	"scheduling-assistant/pkg/datemath"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewParser(t *testing.T) {
	_, err := datemath.NewParser("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("unexpected error creating valid parser: %v", err)
	}

	_, err = datemath.NewParser("Invalid/Timezone")
	if err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestResolveDate(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	baseTime := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) // Wednesday, May 1, 2024

	tests := []struct {
		name       string
		expr       string
		wantKind   datemath.Kind
		want       time.Time
		candidates []time.Time
	}{
		{name: "Today", expr: "today", wantKind: datemath.Concrete, want: date(2024, 5, 1)},
		{name: "Tomorrow with punctuation", expr: "Tomorrow.", wantKind: datemath.Concrete, want: date(2024, 5, 2)},
		{name: "Yesterday", expr: "yesterday", wantKind: datemath.Concrete, want: date(2024, 4, 30)},
		{name: "Day after tomorrow", expr: "the day after tomorrow", wantKind: datemath.Concrete, want: date(2024, 5, 3)},
		{name: "In 3 days", expr: "in 3 days", wantKind: datemath.Concrete, want: date(2024, 5, 4)},
		{name: "In two weeks", expr: "in two weeks", wantKind: datemath.Concrete, want: date(2024, 5, 15)},
		{name: "In 1 month", expr: "in 1 month", wantKind: datemath.Concrete, want: date(2024, 6, 1)},
		{name: "In a few days", expr: "in a few days", wantKind: datemath.Invalid},
		{name: "Next Monday (from Wed)", expr: "next monday", wantKind: datemath.Concrete, want: date(2024, 5, 6)},
		{name: "Next Wednesday (from Wed)", expr: "next wednesday", wantKind: datemath.Concrete, want: date(2024, 5, 8)},
		{name: "This Friday", expr: "this friday", wantKind: datemath.Concrete, want: date(2024, 5, 3)},
		{name: "This Wednesday is today", expr: "this wednesday", wantKind: datemath.Concrete, want: date(2024, 5, 1)},
		{name: "Bare weekday", expr: "Friday", wantKind: datemath.Concrete, want: date(2024, 5, 3)},
		{
			name:       "Bare weekday equal to today",
			expr:       "wednesday",
			wantKind:   datemath.Ambiguous,
			candidates: []time.Time{date(2024, 5, 1), date(2024, 5, 8)},
		},
		{name: "Next week", expr: "next week", wantKind: datemath.Concrete, want: date(2024, 5, 6)},
		{name: "ISO", expr: "2024-09-25", wantKind: datemath.Concrete, want: date(2024, 9, 25)},
		{name: "ISO impossible", expr: "2025-02-30", wantKind: datemath.Invalid},
		{name: "Month day ordinal", expr: "September 25th", wantKind: datemath.Concrete, want: date(2024, 9, 25)},
		{name: "Month day with year", expr: "sept 25, 2026", wantKind: datemath.Concrete, want: date(2026, 9, 25)},
		{name: "Day month", expr: "25 September", wantKind: datemath.Concrete, want: date(2024, 9, 25)},
		{name: "Passed day rolls to next year", expr: "the 3rd of march", wantKind: datemath.Concrete, want: date(2025, 3, 3)},
		{name: "Feb 30", expr: "Feb 30", wantKind: datemath.Invalid},
		{name: "Feb 29 next leap year", expr: "feb 29", wantKind: datemath.Concrete, want: date(2028, 2, 29)},
		{
			name:       "Numeric both readings",
			expr:       "5/1",
			wantKind:   datemath.Ambiguous,
			candidates: []time.Time{date(2024, 5, 1), date(2025, 1, 5)},
		},
		{name: "Numeric day first only", expr: "13/5", wantKind: datemath.Concrete, want: date(2024, 5, 13)},
		{name: "Numeric same both ways", expr: "5/5", wantKind: datemath.Concrete, want: date(2024, 5, 5)},
		{name: "Numeric with year", expr: "9/25/2024", wantKind: datemath.Concrete, want: date(2024, 9, 25)},
		{name: "Numeric impossible", expr: "13/13", wantKind: datemath.Invalid},
		{name: "Invalid next weekday", expr: "next funday", wantKind: datemath.Invalid},
		{name: "Unknown expression", expr: "some random day", wantKind: datemath.Invalid},
		{name: "Empty", expr: "  ", wantKind: datemath.Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ResolveDate(tt.expr, baseTime)
			if got.Kind != tt.wantKind {
				t.Fatalf("ResolveDate(%q) kind = %v, want %v (reason %q)", tt.expr, got.Kind, tt.wantKind, got.Reason)
			}
			switch tt.wantKind {
			case datemath.Concrete:
				if !got.Date.Equal(tt.want) {
					t.Errorf("ResolveDate(%q) got = %v, want %v", tt.expr, got.Date, tt.want)
				}
			case datemath.Ambiguous:
				if len(got.Candidates) != len(tt.candidates) {
					t.Fatalf("ResolveDate(%q) candidates = %v, want %v", tt.expr, got.Candidates, tt.candidates)
				}
				for i := range tt.candidates {
					if !got.Candidates[i].Equal(tt.candidates[i]) {
						t.Errorf("candidate %d = %v, want %v", i, got.Candidates[i], tt.candidates[i])
					}
				}
			case datemath.Invalid:
				if got.Reason == "" {
					t.Errorf("expected a reason for invalid expression %q", tt.expr)
				}
			}
		})
	}
}

func TestResolveDateUsesParserTimezone(t *testing.T) {
	parser, err := datemath.NewParser("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	// 20:00 UTC is already the next morning in UTC+7.
	ref := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	got := parser.ResolveDate("today", ref)
	if got.Kind != datemath.Concrete || !got.Date.Equal(date(2024, 5, 2)) {
		t.Errorf("ResolveDate(today) = %+v, want 2024-05-02", got)
	}
	if today := parser.Today(ref); !today.Equal(date(2024, 5, 2)) {
		t.Errorf("Today() = %v, want 2024-05-02", today)
	}
}

func TestResolveDateMonthOffsetClampsToMonthEnd(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")

	tests := []struct {
		name string
		expr string
		ref  time.Time
		want time.Time
	}{
		{name: "Jan 31 plus one month", expr: "in 1 month", ref: date(2025, 1, 31), want: date(2025, 2, 28)},
		{name: "Jan 31 in a leap year", expr: "in a month", ref: date(2024, 1, 31), want: date(2024, 2, 29)},
		{name: "Aug 31 plus a month", expr: "in a month", ref: date(2025, 8, 31), want: date(2025, 9, 30)},
		{name: "Oct 31 plus four months", expr: "in 4 months", ref: date(2025, 10, 31), want: date(2026, 2, 28)},
		{name: "Mid month is unchanged", expr: "in 2 months", ref: date(2025, 11, 15), want: date(2026, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.ResolveDate(tt.expr, tt.ref.Add(10*time.Hour))
			if got.Kind != datemath.Concrete {
				t.Fatalf("ResolveDate(%q) kind = %v, want concrete", tt.expr, got.Kind)
			}
			if !got.Date.Equal(tt.want) {
				t.Errorf("ResolveDate(%q) from %s = %s, want %s", tt.expr, tt.ref.Format("2006-01-02"), got.Date.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}
