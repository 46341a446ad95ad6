package extractor

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// KindRule classifies a notification by the first pattern that matches it.
type KindRule struct {
	Pattern string      `yaml:"pattern"`
	Kind    ledger.Kind `yaml:"kind"`
}

// CategoryRule assigns Category when any keyword occurs in the text.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// CardAccount maps the trailing digits of a card or account number to a
// registry account.
type CardAccount struct {
	Digits  string `yaml:"digits"`
	Account string `yaml:"account"`
}

// Rules drives extraction. Table order is significant everywhere.
type Rules struct {
	Classification []KindRule      `yaml:"classification"`
	Boundaries     []string        `yaml:"boundaries"`
	Categories     []CategoryRule  `yaml:"categories"`
	Cards          []CardAccount   `yaml:"cards"`
	AmountCeiling  decimal.Decimal `yaml:"amount_ceiling"`
	// SplitBatches also splits classified texts carrying several boundaries.
	SplitBatches          bool   `yaml:"split_batches"`
	DefaultExpenseAccount string `yaml:"default_expense_account"`
	DefaultIncomeAccount  string `yaml:"default_income_account"`
}

// DefaultRules returns the built-in rule set for Saudi bank notifications in
// English and Arabic.
func DefaultRules() Rules {
	return Rules{
		Classification: []KindRule{
			{Pattern: `Reverse Transaction|Refund|إسترداد مبلغ|استرداد`, Kind: ledger.KindIncome},
			{Pattern: `POS Purchase|شراء-POS`, Kind: ledger.KindExpense},
			{Pattern: `Online Purchase|شراء إنترنت|شراء اون لاين`, Kind: ledger.KindExpense},
			{Pattern: `Outgoing.*transfer|تحويل صادر`, Kind: ledger.KindExpense},
			{Pattern: `Credit Transfer|Incoming.*transfer|تحويل وارد`, Kind: ledger.KindIncome},
			{Pattern: `Deposit|Payroll|Salary|إيداع|رواتب|راتب`, Kind: ledger.KindIncome},
			{Pattern: `Purchase|شراء|مدى`, Kind: ledger.KindExpense},
		},
		Boundaries: []string{
			`POS Purchase`,
			`Online Purchase`,
			`Outgoing.*?transfer`,
			`Reverse Transaction`,
			`Credit Transfer`,
			`شراء-POS`,
			`إسترداد مبلغ`,
			`شراء إنترنت`,
			`شراء اون لاين`,
			`تحويل`,
		},
		Categories: []CategoryRule{
			{Category: "coffee", Keywords: []string{"coffee", "cafe", "café", "كافيه", "مقهى", "قهوة"}},
			{Category: "food", Keywords: []string{"restaurant", "al faisal", "barakah", "lounge", "economy", "burger", "kfc", "mcdonald", "مطعم", "برجر", "ماكدونالدز"}},
			{Category: "supermarket", Keywords: []string{"supermarket", "grocery", "price reducer", "alsalah", "hyper", "danube", "carrefour", "سوبرماركت", "هايبر", "دانوب", "كارفور"}},
			{Category: "fuel", Keywords: []string{"fuel", "petrol", "بنزين", "وقود", "محطة"}},
			{Category: "transport", Keywords: []string{"transport", "taxi", "uber", "careem", "مواصلات", "تاكسي", "اوبر"}},
			{Category: "clothing", Keywords: []string{"clothing", "clothes", "landmark", "ملابس"}},
			{Category: "electronics", Keywords: []string{"electronics", "إلكترونيات", "جرير", "jarir"}},
			{Category: "shopping", Keywords: []string{"shopping", "bajh trad", "consumer river", "تسوق"}},
			{Category: "bills", Keywords: []string{"bill", "electricity", "فاتورة", "كهرباء"}},
			{Category: "health", Keywords: []string{"pharmacy", "medical", "hospital", "صيدلية", "مستشفى", "دواء"}},
		},
		AmountCeiling: decimal.NewFromInt(100000),
		SplitBatches:  true,
	}
}

// LoadRules reads a YAML rules file. Keys absent from the file keep their
// built-in defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	return rules, nil
}

// CardAccount returns the account mapped to a card fragment or to any mapped
// digits appearing in text.
func (r Rules) CardAccount(fragment, text string) (string, bool) {
	if fragment != "" {
		for _, c := range r.Cards {
			if c.Digits == fragment || strings.HasSuffix(c.Digits, fragment) || strings.HasSuffix(fragment, c.Digits) {
				return c.Account, true
			}
		}
	}
	for _, c := range r.Cards {
		if c.Digits != "" && strings.Contains(text, c.Digits) {
			return c.Account, true
		}
	}
	return "", false
}

// DefaultAccount is the configured fallback account for kind.
func (r Rules) DefaultAccount(kind ledger.Kind) string {
	if kind == ledger.KindIncome {
		return r.DefaultIncomeAccount
	}
	return r.DefaultExpenseAccount
}

type compiledKindRule struct {
	re   *regexp.Regexp
	kind ledger.Kind
}

type compiledRules struct {
	kinds      []compiledKindRule
	boundaries *regexp.Regexp
}

func (r Rules) compile() (compiledRules, error) {
	var c compiledRules
	for _, rule := range r.Classification {
		if rule.Kind != ledger.KindExpense && rule.Kind != ledger.KindIncome {
			return compiledRules{}, fmt.Errorf("classification rule %q: unknown kind %q", rule.Pattern, rule.Kind)
		}
		re, err := regexp.Compile(`(?i)` + rule.Pattern)
		if err != nil {
			return compiledRules{}, fmt.Errorf("classification rule %q: %w", rule.Pattern, err)
		}
		c.kinds = append(c.kinds, compiledKindRule{re: re, kind: rule.Kind})
	}
	if len(r.Boundaries) > 0 {
		re, err := regexp.Compile(`(?i)` + strings.Join(r.Boundaries, "|"))
		if err != nil {
			return compiledRules{}, fmt.Errorf("boundary patterns: %w", err)
		}
		c.boundaries = re
	}
	if !r.AmountCeiling.IsPositive() {
		return compiledRules{}, fmt.Errorf("amount ceiling must be positive, got %s", r.AmountCeiling)
	}
	return c, nil
}
