package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inOffsetRe = regexp.MustCompile(`^in (\w+) (day|days|week|weeks|month|months)$`)
	isoDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	monthDayRe = regexp.MustCompile(`^([a-z]+)\.? (\d{1,2})(?:st|nd|rd|th)?(?:,? (\d{4}))?$`)
	dayMonthRe = regexp.MustCompile(`^(?:the )?(\d{1,2})(?:st|nd|rd|th)? (?:of )?([a-z]+)\.?(?:,? (\d{4}))?$`)
	numericRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
	"sun":       time.Sunday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Parser resolves already-segmented date phrases against a reference instant.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Asia/Ho_Chi_Minh"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Today returns the civil date of now in the parser's timezone.
func (p *Parser) Today(now time.Time) time.Time {
	return p.startOfDay(now)
}

// ResolveDate maps a date phrase to a civil date, using ref as the anchor for relative forms.
func (p *Parser) ResolveDate(expr string, ref time.Time) DateResolution {
	s := strings.TrimRight(normalize(expr), ".,!")
	if s == "" {
		return invalidDate("empty date expression")
	}
	today := p.startOfDay(ref)

	switch s {
	case "today", "tonight":
		return concreteDate(today)
	case "tomorrow":
		return concreteDate(today.AddDate(0, 0, 1))
	case "yesterday":
		return concreteDate(today.AddDate(0, 0, -1))
	case "day after tomorrow", "the day after tomorrow":
		return concreteDate(today.AddDate(0, 0, 2))
	case "next week":
		return concreteDate(nextMonday(today))
	}

	if m := inOffsetRe.FindStringSubmatch(s); m != nil {
		return resolveOffset(m[1], m[2], today)
	}
	if name, ok := strings.CutPrefix(s, "next "); ok {
		return resolveWeekday(name, today, weekdayNext)
	}
	if name, ok := strings.CutPrefix(s, "this "); ok {
		return resolveWeekday(name, today, weekdayThis)
	}
	if _, ok := weekdays[s]; ok {
		return resolveWeekday(s, today, weekdayBare)
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return resolveAbsolute(y, time.Month(mo), d)
	}
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		if month, ok := months[m[1]]; ok {
			d, _ := strconv.Atoi(m[2])
			return resolveMonthDay(month, d, m[3], today)
		}
	}
	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		if month, ok := months[m[2]]; ok {
			d, _ := strconv.Atoi(m[1])
			return resolveMonthDay(month, d, m[3], today)
		}
	}
	if m := numericRe.FindStringSubmatch(s); m != nil {
		return resolveNumeric(m[1], m[2], m[3], today)
	}

	return invalidDate(fmt.Sprintf("unrecognized date expression %q", expr))
}

// resolveOffset handles patterns like "in 3 days", "in two weeks", "in a month".
func resolveOffset(amount, unit string, today time.Time) DateResolution {
	n, ok := ParseNumber(amount)
	if !ok {
		return invalidDate(fmt.Sprintf("unrecognized amount %q", amount))
	}

	switch {
	case strings.HasPrefix(unit, "day"):
		return concreteDate(today.AddDate(0, 0, n))
	case strings.HasPrefix(unit, "week"):
		return concreteDate(today.AddDate(0, 0, n*7))
	default:
		return concreteDate(addMonths(today, n))
	}
}

// addMonths moves today by n calendar months, clamping the day to the end of the
// target month: "in 1 month" from Jan 31 is Feb 28 (or 29), never Mar 3.
func addMonths(today time.Time, n int) time.Time {
	first := time.Date(today.Year(), today.Month()+time.Month(n), 1, 0, 0, 0, 0, today.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(today.Day(), last)-1)
}

type weekdayMode int

const (
	weekdayNext weekdayMode = iota // strictly after today
	weekdayThis                    // today or later this week
	weekdayBare                    // upcoming; ambiguous when it is today
)

func resolveWeekday(name string, today time.Time, mode weekdayMode) DateResolution {
	target, ok := weekdays[name]
	if !ok {
		return invalidDate(fmt.Sprintf("unknown weekday %q", name))
	}

	daysUntil := (int(target) - int(today.Weekday()) + 7) % 7
	switch mode {
	case weekdayNext:
		if daysUntil == 0 {
			daysUntil = 7
		}
	case weekdayBare:
		if daysUntil == 0 {
			return DateResolution{
				Kind:       Ambiguous,
				Candidates: []time.Time{today, today.AddDate(0, 0, 7)},
				Reason:     fmt.Sprintf("%q could mean today or next week", name),
			}
		}
	}
	return concreteDate(today.AddDate(0, 0, daysUntil))
}

func resolveAbsolute(year int, month time.Month, day int) DateResolution {
	if !validDate(year, month, day) {
		return invalidDate(fmt.Sprintf("%04d-%02d-%02d is not a valid date", year, int(month), day))
	}
	return concreteDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func resolveMonthDay(month time.Month, day int, year string, today time.Time) DateResolution {
	if year != "" {
		y, _ := strconv.Atoi(year)
		return resolveAbsolute(y, month, day)
	}
	return resolveYearless(month, day, today)
}

// resolveYearless picks the next occurrence of month/day on or after today.
func resolveYearless(month time.Month, day int, today time.Time) DateResolution {
	if month < time.January || month > time.December || day < 1 || day > maxDays(month) {
		return invalidDate(fmt.Sprintf("%s %d does not exist", month, day))
	}
	for y := today.Year(); y <= today.Year()+8; y++ {
		if !validDate(y, month, day) {
			continue
		}
		d := time.Date(y, month, day, 0, 0, 0, 0, time.UTC)
		if !d.Before(today) {
			return concreteDate(d)
		}
	}
	return invalidDate(fmt.Sprintf("%s %d does not exist", month, day))
}

// resolveNumeric reads a/b as both MM/DD and DD/MM and keeps the readings that exist.
func resolveNumeric(a, b, year string, today time.Time) DateResolution {
	first, _ := strconv.Atoi(a)
	second, _ := strconv.Atoi(b)

	var found []time.Time
	for _, md := range [][2]int{{first, second}, {second, first}} {
		r := resolveMonthDay(time.Month(md[0]), md[1], year, today)
		if r.Kind != Concrete {
			continue
		}
		if len(found) == 0 || !found[0].Equal(r.Date) {
			found = append(found, r.Date)
		}
	}

	switch len(found) {
	case 0:
		return invalidDate(fmt.Sprintf("%s/%s is not a valid date", a, b))
	case 1:
		return concreteDate(found[0])
	}
	return DateResolution{
		Kind:       Ambiguous,
		Candidates: found,
		Reason:     fmt.Sprintf("%s/%s could be read as month/day or day/month", a, b),
	}
}

func nextMonday(today time.Time) time.Time {
	days := (8 - int(today.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// startOfDay returns the civil date of t in the parser's timezone, at 00:00 UTC.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validDate(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	return day <= time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// maxDays is the largest day a month can have in any year.
func maxDays(month time.Month) int {
	if month == time.February {
		return 29
	}
	return time.Date(2001, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func concreteDate(d time.Time) DateResolution {
	return DateResolution{Kind: Concrete, Date: d}
}

func invalidDate(reason string) DateResolution {
	return DateResolution{Kind: Invalid, Reason: reason}
}
