package ledger

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var digitMapper = runes.Map(func(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r == '٫':
		return '.'
	case r == '٬':
		return ','
	}
	return r
})

// NormalizeDigits rewrites Arabic-Indic and Persian digits and the Arabic
// decimal and thousands separators as ASCII.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(digitMapper, s)
	if err != nil {
		return s
	}
	return out
}

// digitRuns returns every maximal run of ASCII digits in s.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
