package common

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Date is a calendar date without time of day. Arithmetic rolls over the same way
// normalizing a broken-down time does, e.g. January 31 plus one month is March 3.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Unit is the unit of a duration offset between expirations
type Unit byte

const (
	Days     Unit = 'd'
	Months   Unit = 'm'
	Years    Unit = 'y'
	Quarters Unit = 'q'
)

func (u Unit) String() string {
	switch u {
	case Days:
		return "day"
	case Months:
		return "month"
	case Years:
		return "year"
	case Quarters:
		return "quarter"
	}
	return "unit(" + string(rune(u)) + ")"
}

func ParseUnit(c byte) (Unit, bool) {
	switch u := Unit(c); u {
	case Days, Months, Years, Quarters:
		return u, true
	}
	return 0, false
}

// non-leap month lengths, used by the quarter carry rule
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return DateOf(t), nil
}

// ParseFIXDate parses a FIX LocalMktDate (YYYYMMDD)
func ParseFIXDate(s string) (Date, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "invalid FIX date %q", s)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year, d.Month+time.Month(n), d.Day)
}

func (d Date) AddYears(n int) Date {
	return NewDate(d.Year+n, d.Month, d.Day)
}

// MonthIndex is a linear month counter, consecutive months differ by one
func (d Date) MonthIndex() int {
	return d.Year*12 + int(d.Month)
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	}
	return cmpInt(d.Day, other.Day)
}

func (d Date) Equal(other Date) bool {
	return d.Compare(other) == 0
}
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FIXString formats the date as a FIX LocalMktDate
func (d Date) FIXString() string {
	return d.Time().Format("20060102")
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// MatchesQuarterOffset reports whether candidate lies quarters*3 months after anchor. A one month
// carry is accepted when the anchor's day does not exist in the month before the candidate's month,
// which is where rolling the anchor forward lands.
func MatchesQuarterOffset(anchor Date, candidate Date, quarters int) bool {
	diff := candidate.MonthIndex() - anchor.MonthIndex()
	if diff == quarters*3 {
		return true
	}
	prev := candidate.Month - 1
	if prev < time.January {
		prev = time.December
	}
	return diff == quarters*3+1 && anchor.Day > daysInMonth[prev-1]
}

// MatchesDurationOffset reports whether candidate is exactly amount units after anchor
func MatchesDurationOffset(anchor Date, candidate Date, amount int, unit Unit) bool {
	switch unit {
	case Days:
		return anchor.AddDays(amount).Equal(candidate)
	case Months:
		return anchor.AddMonths(amount).Equal(candidate)
	case Years:
		return anchor.AddYears(amount).Equal(candidate)
	case Quarters:
		return MatchesQuarterOffset(anchor, candidate, amount)
	}
	return false
}
