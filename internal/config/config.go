package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

const (
	BackendWorkbook = "workbook"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	StoreBackend string
	WorkbookPath string
	SQLitePath   string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	HTTPPort       string
	AllowedChatIDs []int64

	RulesPath          string
	// DefaultExpenseAccount and DefaultIncomeAccount take bank-message
	// candidates with no card match, unless the rules file names its own.
	DefaultExpenseAccount string
	DefaultIncomeAccount  string
	ConfirmPolicy      transfer.Policy
	StrictAccountMatch bool
	BudgetBaseline     decimal.Decimal
	LogLevel           logrus.Level

	// SeedAccounts are registered when the store holds no accounts.
	SeedAccounts []ledger.Account
}

// DefaultSeedAccounts is the starter chart used on first run.
func DefaultSeedAccounts() []ledger.Account {
	return []ledger.Account{
		{Name: "💳 البنك الأهلي", Type: ledger.AccountTypeBank, Balance: decimal.Zero},
		{Name: "💳 بطاقة الائتمان", Type: ledger.AccountTypeCreditCard, Balance: decimal.Zero},
		{Name: "💵 النقدي", Type: ledger.AccountTypeCash, Balance: decimal.Zero},
		{Name: "📃 ديون على الآخرين", Type: ledger.AccountTypeDebt, Balance: decimal.Zero},
	}
}

// Load reads an optional .env file and then the environment. An explicit
// path must exist; the default ./.env may be absent.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}
	return ProcessEnvironmentVariables()
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Defaults run the bot against a spreadsheet in the working directory.
	env := Config{
		StoreBackend:     BackendWorkbook,
		WorkbookPath:     "financial_tracker.xlsx",
		SQLitePath:       "finance.db",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		HTTPPort:         "9446",
		ConfirmPolicy:    transfer.PolicyPreserve,
		BudgetBaseline:   decimal.Zero,
		LogLevel:         logrus.InfoLevel,
		SeedAccounts:     DefaultSeedAccounts(),

		DefaultExpenseAccount: "بطاقة الائتمان",
		DefaultIncomeAccount:  "البنك الأهلي",
	}

	setString(&env.StoreBackend, "STORE_BACKEND")
	setString(&env.WorkbookPath, "WORKBOOK_PATH")
	setString(&env.SQLitePath, "SQLITE_PATH")
	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.HTTPPort, "HTTP_PORT")
	setString(&env.RulesPath, "RULES_PATH")
	setString(&env.DefaultExpenseAccount, "DEFAULT_EXPENSE_ACCOUNT")
	setString(&env.DefaultIncomeAccount, "DEFAULT_INCOME_ACCOUNT")

	switch env.StoreBackend {
	case BackendWorkbook, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", env.StoreBackend)
	}

	if v := os.Getenv("ALLOWED_CHAT_IDS"); len(v) != 0 {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ALLOWED_CHAT_IDS entry %q: %w", part, err)
			}
			env.AllowedChatIDs = append(env.AllowedChatIDs, id)
		}
	}

	if v := os.Getenv("CONFIRM_POLICY"); len(v) != 0 {
		policy, err := transfer.ParsePolicy(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CONFIRM_POLICY: %w", err)
		}
		env.ConfirmPolicy = policy
	}

	if v := os.Getenv("STRICT_ACCOUNT_MATCH"); len(v) != 0 {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STRICT_ACCOUNT_MATCH: %w", err)
		}
		env.StrictAccountMatch = strict
	}

	if v := os.Getenv("BUDGET_BASELINE"); len(v) != 0 {
		baseline, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUDGET_BASELINE: %w", err)
		}
		env.BudgetBaseline = baseline
	}

	if v := os.Getenv("SEED_ACCOUNTS"); len(v) != 0 {
		seed, err := ParseSeedAccounts(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_ACCOUNTS: %w", err)
		}
		env.SeedAccounts = seed
	}

	if v := os.Getenv("LOG_LEVEL"); len(v) != 0 {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		env.LogLevel = level
	}

	return &env, nil
}

// ParseSeedAccounts reads a `name:type[:balance]` list separated by ';'.
// "none" or "false" turns seeding off.
func ParseSeedAccounts(v string) ([]ledger.Account, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "false":
		return nil, nil
	}

	var out []ledger.Account
	for _, entry := range strings.Split(v, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("entry %q: want name:type[:balance]", entry)
		}

		balance := decimal.Zero
		if len(parts) >= 3 {
			b, err := decimal.NewFromString(ledger.NormalizeDigits(strings.TrimSpace(parts[len(parts)-1])))
			if err != nil {
				return nil, fmt.Errorf("entry %q: invalid balance: %w", entry, err)
			}
			balance = b
			parts = parts[:len(parts)-1]
		}

		typeText := parts[len(parts)-1]
		accountType, ok := ledger.ParseAccountType(typeText)
		if !ok {
			return nil, fmt.Errorf("entry %q: unknown account type %q", entry, typeText)
		}
		name := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
		if name == "" {
			return nil, fmt.Errorf("entry %q: %w", entry, ledger.ErrInvalidAccountName)
		}
		out = append(out, ledger.Account{Name: name, Type: accountType, Balance: balance})
	}
	return out, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*dst = v
	}
}

// PostgresDSN is the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// MatchMode is the account lookup mode selected by STRICT_ACCOUNT_MATCH.
func (c *Config) MatchMode() ledger.MatchMode {
	if c.StrictAccountMatch {
		return ledger.MatchStrict
	}
	return ledger.MatchFirst
}

// ChatAllowed reports whether a chat may talk to the bot. An empty allow
// list admits everyone.
func (c *Config) ChatAllowed(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
