package extractor

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// ErrExtractionEmpty is returned by callers that need at least one candidate.
var ErrExtractionEmpty = errors.New("no transaction found in text")

// KindUnknown marks text no classification rule matched.
const KindUnknown ledger.Kind = "unknown"

const (
	Unspecified   = "unspecified"
	Uncategorized = "uncategorized"

	maxPartyRunes = 40
)

// ExtractedTransaction is a transaction candidate read from free text.
type ExtractedTransaction struct {
	Kind          ledger.Kind
	Amount        omit.Val[decimal.Decimal]
	Date          time.Time
	DateDefaulted bool
	Counterpart   string
	PaymentMethod string
	CardFragment  omit.Val[string]
	Category      string
	Segment       string
}

// Complete reports whether the candidate carries both a kind and an amount.
func (t ExtractedTransaction) Complete() bool {
	return t.Kind != KindUnknown && t.Amount.IsValue()
}

var (
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:amount|بمبلغ|مبلغ|بـ)[:\s]*(?:SAR|ر\.س)?\s*(\d[\d,.]*)`),
		regexp.MustCompile(`(?i)(\d[\d,.]*)\s*(?:SAR|ريال|ر\.س|ر س|رس)`),
		regexp.MustCompile(`(?i)(?:SAR|ر\.س)\s*(\d[\d,.]*)`),
	}
	bareNumberPattern = regexp.MustCompile(`\d[\d,.]*`)
	datePattern       = regexp.MustCompile(`(\d{1,4})[/\-.](\d{1,2})[/\-.](\d{1,4})`)
	timePattern       = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
	cardPattern       = regexp.MustCompile(`\*+\s?(\d{3,4})`)

	counterpartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:at|from|via)\b[:\s]+(.+?)(?:\s+(?:by|on|at)\b|\s+\*|[\r\n]|$)`),
		regexp.MustCompile(`(?:لدى|عند|من)[:\s]+(.+?)(?:\s+(?:بطاقة|إئتمانية|التاريخ|في|عبر)|\s+\*|[\r\n]|$)`),
	}
	paymentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bby\b[:\s]+(.+?)(?:\s+(?:on|at)\b|[\r\n]|$)`),
		regexp.MustCompile(`(?:عبر|بطاقة)[:\s]+(.+?)(?:\s+(?:من|لدى|عند|التاريخ|في)|[\r\n]|$)`),
	}
)

// Extractor reads transaction candidates from bank notification text.
type Extractor struct {
	rules    Rules
	compiled compiledRules
}

func New(rules Rules) (*Extractor, error) {
	compiled, err := rules.compile()
	if err != nil {
		return nil, err
	}
	return &Extractor{rules: rules, compiled: compiled}, nil
}

func (e *Extractor) Rules() Rules {
	return e.rules
}

// Extract returns every complete candidate found in text. The result depends
// only on text, now and the rules.
func (e *Extractor) Extract(text string, now time.Time) []ExtractedTransaction {
	normalized := ledger.NormalizeDigits(text)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	whole := e.Parse(normalized, now)
	starts := e.boundaryStarts(normalized)
	if whole.Kind != KindUnknown && !(e.rules.SplitBatches && len(starts) >= 2) {
		return completeOnly(whole)
	}

	segments := e.segments(normalized, starts, now)
	if whole.Kind == KindUnknown || len(segments) >= 2 {
		return segments
	}
	// a single notification that quotes another boundary, such as a refund
	return completeOnly(whole)
}

func completeOnly(tx ExtractedTransaction) []ExtractedTransaction {
	if tx.Complete() {
		return []ExtractedTransaction{tx}
	}
	return nil
}

// segments parses the text between consecutive boundary starts, keeping
// complete candidates only.
func (e *Extractor) segments(text string, starts []int, now time.Time) []ExtractedTransaction {
	var out []ExtractedTransaction
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		segment := strings.TrimSpace(text[start:end])
		if segment == "" {
			continue
		}
		if tx := e.Parse(segment, now); tx.Complete() {
			out = append(out, tx)
		}
	}
	return out
}

// Parse runs every field extractor over one segment without splitting or
// dropping incomplete results.
func (e *Extractor) Parse(segment string, now time.Time) ExtractedTransaction {
	segment = ledger.NormalizeDigits(segment)
	tx := ExtractedTransaction{
		Kind:          e.classify(segment),
		Counterpart:   firstGroup(counterpartPatterns, segment),
		PaymentMethod: firstGroup(paymentPatterns, segment),
		Segment:       segment,
	}
	if amount, ok := e.amount(segment); ok {
		tx.Amount = omit.From(amount)
	}
	if d, ok := findDate(segment); ok {
		tx.Date = d
	} else {
		tx.Date = ledger.Day(now)
		tx.DateDefaulted = true
	}
	if m := cardPattern.FindStringSubmatch(segment); m != nil {
		tx.CardFragment = omit.From(m[1])
	}
	tx.Category = e.category(tx.Counterpart, segment)
	return tx
}

func (e *Extractor) classify(text string) ledger.Kind {
	for _, rule := range e.compiled.kinds {
		if rule.re.MatchString(text) {
			return rule.kind
		}
	}
	return KindUnknown
}

func (e *Extractor) boundaryStarts(text string) []int {
	if e.compiled.boundaries == nil {
		return nil
	}
	var starts []int
	for _, loc := range e.compiled.boundaries.FindAllStringIndex(text, -1) {
		starts = append(starts, loc[0])
	}
	return starts
}

func (e *Extractor) amount(text string) (decimal.Decimal, bool) {
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if amount, ok := e.acceptAmount(m[1]); ok {
				return amount, true
			}
		}
	}

	// bare numbers, once dates, times and card digits cannot be mistaken for them
	blanked := text
	for _, re := range []*regexp.Regexp{datePattern, timePattern, cardPattern} {
		blanked = re.ReplaceAllStringFunc(blanked, func(s string) string {
			return strings.Repeat(" ", len(s))
		})
	}
	for _, raw := range bareNumberPattern.FindAllString(blanked, -1) {
		if amount, ok := e.acceptAmount(raw); ok {
			return amount, true
		}
	}
	return decimal.Decimal{}, false
}

func (e *Extractor) acceptAmount(raw string) (decimal.Decimal, bool) {
	amount, ok := ParseAmount(raw)
	if !ok || !amount.IsPositive() || amount.GreaterThan(e.rules.AmountCeiling) {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// ParseAmount reads a number written with optional thousands separators. A
// single dot followed by at most two digits is a decimal point; any other dot
// is a thousands separator.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.Trim(ledger.NormalizeDigits(strings.TrimSpace(raw)), ".,")
	s = strings.ReplaceAll(s, ",", "")
	if parts := strings.Split(s, "."); len(parts) > 1 && !(len(parts) == 2 && len(parts[1]) <= 2) {
		s = strings.ReplaceAll(s, ".", "")
	}
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// findDate returns the first date-shaped substring that forms a valid date,
// trying year-first, day-first and month-first orderings.
func findDate(text string) (time.Time, bool) {
	for _, m := range datePattern.FindAllStringSubmatch(text, -1) {
		if d, ok := parseDateParts(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseDateParts(a, b, c string) (time.Time, bool) {
	if len(a) == 4 || atoi(a) > 31 {
		return buildDate(a, b, c)
	}
	if len(c) != 2 && len(c) != 4 {
		return time.Time{}, false
	}
	if d, ok := buildDate(c, b, a); ok {
		return d, true
	}
	return buildDate(c, a, b)
}

func buildDate(year, month, day string) (time.Time, bool) {
	y, m, d := atoi(year), atoi(month), atoi(day)
	if len(year) == 2 {
		y += 2000
	}
	if len(year) != 2 && len(year) != 4 {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := truncate(strings.TrimSpace(m[1])); v != "" {
				return v
			}
		}
	}
	return Unspecified
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxPartyRunes {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:maxPartyRunes]))
}

func (e *Extractor) category(counterpart, segment string) string {
	for _, text := range []string{counterpart, segment} {
		lower := strings.ToLower(text)
		for _, rule := range e.rules.Categories {
			for _, kw := range rule.Keywords {
				if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
					return rule.Category
				}
			}
		}
	}
	return Uncategorized
}
