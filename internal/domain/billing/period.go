package billing

import (
	"fmt"
	"strings"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// Month is one of the twelve canonical Indonesian month names
type Month string

const (
	MonthJanuari   Month = "Januari"
	MonthFebruari  Month = "Februari"
	MonthMaret     Month = "Maret"
	MonthApril     Month = "April"
	MonthMei       Month = "Mei"
	MonthJuni      Month = "Juni"
	MonthJuli      Month = "Juli"
	MonthAgustus   Month = "Agustus"
	MonthSeptember Month = "September"
	MonthOktober   Month = "Oktober"
	MonthNovember  Month = "November"
	MonthDesember  Month = "Desember"
)

// Months lists the calendar in order
var Months = []Month{
	MonthJanuari, MonthFebruari, MonthMaret, MonthApril, MonthMei, MonthJuni,
	MonthJuli, MonthAgustus, MonthSeptember, MonthOktober, MonthNovember, MonthDesember,
}

const (
	MinYear = 2000
	MaxYear = 2100
)

// ParseMonth matches a month name case-insensitively and returns its canonical spelling
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, m := range Months {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", shared.NewValidationError("INVALID_MONTH", fmt.Sprintf("Unknown month %q, expected an Indonesian month name such as Januari", s))
}

// Number returns the 1-based month number, or 0 for an unknown month
func (m Month) Number() int {
	for i, mm := range Months {
		if mm == m {
			return i + 1
		}
	}
	return 0
}

// IsValid checks if the month is canonical
func (m Month) IsValid() bool {
	return m.Number() != 0
}

// String returns the string representation of Month
func (m Month) String() string {
	return string(m)
}

// Period is the billing month of a fee
type Period struct {
	Month Month
	Year  int
}

// NewPeriod validates and normalizes a billing period
func NewPeriod(month string, year int) (Period, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Period{}, err
	}
	if year < MinYear || year > MaxYear {
		return Period{}, shared.NewValidationError("INVALID_YEAR", fmt.Sprintf("Year must be between %d and %d", MinYear, MaxYear))
	}
	return Period{Month: m, Year: year}, nil
}

// String renders the period as "Januari 2025"
func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}
