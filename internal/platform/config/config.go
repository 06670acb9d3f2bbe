package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LedgerAccounts holds the chart-of-accounts codes the posting engine resolves
// its control accounts from. The codes must exist and be active before payroll
// or billing operations run.
type LedgerAccounts struct {
	Cash                string // Asset: cash / bank
	AccountsReceivable  string // Asset
	SalesRevenue        string // Revenue
	VATPayable          string // Liability
	CustomerPrepayments string // Liability
	SalaryExpense       string // Expense: gross salaries
	PensionExpense      string // Expense: employer pension contribution
	PAYEPayable         string // Liability
	PensionPayable      string // Liability: employee + employer shares
	NHISPayable         string // Liability
	NHFPayable          string // Liability
	SalariesPayable     string // Liability: net pay owed to staff
}

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	// Rate limiting, e.g. "100-M" for 100 requests per minute per IP.
	RateLimit string

	// VATRate is the value-added tax rate applied to invoice subtotals.
	VATRate decimal.Decimal

	Ledger LedgerAccounts
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "quarrybooks")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("VAT_RATE", "0.075")

	viper.SetDefault("LEDGER_CASH", "1000")
	viper.SetDefault("LEDGER_ACCOUNTS_RECEIVABLE", "1100")
	viper.SetDefault("LEDGER_SALES_REVENUE", "4000")
	viper.SetDefault("LEDGER_VAT_PAYABLE", "2100")
	viper.SetDefault("LEDGER_CUSTOMER_PREPAYMENTS", "2200")
	viper.SetDefault("LEDGER_SALARY_EXPENSE", "5100")
	viper.SetDefault("LEDGER_PENSION_EXPENSE", "5110")
	viper.SetDefault("LEDGER_PAYE_PAYABLE", "2300")
	viper.SetDefault("LEDGER_PENSION_PAYABLE", "2310")
	viper.SetDefault("LEDGER_NHIS_PAYABLE", "2320")
	viper.SetDefault("LEDGER_NHF_PAYABLE", "2330")
	viper.SetDefault("LEDGER_SALARIES_PAYABLE", "2340")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	vatRateStr := viper.GetString("VAT_RATE")
	vatRate, err := decimal.NewFromString(vatRateStr)
	if err != nil || vatRate.IsNegative() {
		vatRate = decimal.RequireFromString("0.075")
		log.Printf("Warning: Invalid value for VAT_RATE ('%s'). Defaulting to %s.\n", vatRateStr, vatRate.String())
	}
	cfg.VATRate = vatRate

	cfg.Ledger = LedgerAccounts{
		Cash:                viper.GetString("LEDGER_CASH"),
		AccountsReceivable:  viper.GetString("LEDGER_ACCOUNTS_RECEIVABLE"),
		SalesRevenue:        viper.GetString("LEDGER_SALES_REVENUE"),
		VATPayable:          viper.GetString("LEDGER_VAT_PAYABLE"),
		CustomerPrepayments: viper.GetString("LEDGER_CUSTOMER_PREPAYMENTS"),
		SalaryExpense:       viper.GetString("LEDGER_SALARY_EXPENSE"),
		PensionExpense:      viper.GetString("LEDGER_PENSION_EXPENSE"),
		PAYEPayable:         viper.GetString("LEDGER_PAYE_PAYABLE"),
		PensionPayable:      viper.GetString("LEDGER_PENSION_PAYABLE"),
		NHISPayable:         viper.GetString("LEDGER_NHIS_PAYABLE"),
		NHFPayable:          viper.GetString("LEDGER_NHF_PAYABLE"),
		SalariesPayable:     viper.GetString("LEDGER_SALARIES_PAYABLE"),
	}

	return cfg, nil
}
