// Package datefmt renders dates the way they appear in issued license records.
package datefmt

import (
	"fmt"
	"time"
)

// Supported locales.
const (
	LocaleID = "id"
	LocaleEN = "en"
)

var shortMonths = map[string][12]string{
	LocaleID: {"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"},
	LocaleEN: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// Formatter renders a point in time as "day month year", e.g. "16 Okt 2026".
type Formatter struct {
	locale string
	loc    *time.Location
}

// New returns a formatter for locale rendering in loc. A nil loc means time.Local.
func New(locale string, loc *time.Location) (*Formatter, error) {
	if !Supported(locale) {
		return nil, fmt.Errorf("unsupported date locale %q", locale)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{locale: locale, loc: loc}, nil
}

// Supported reports whether locale has month names.
func Supported(locale string) bool {
	_, ok := shortMonths[locale]
	return ok
}

// Format renders t in the formatter's locale and time zone.
func (f *Formatter) Format(t time.Time) string {
	t = t.In(f.loc)
	return fmt.Sprintf("%d %s %d", t.Day(), shortMonths[f.locale][t.Month()-1], t.Year())
}
