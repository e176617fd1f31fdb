package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Magento      MagentoConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAGSYNC_APP_ENV" required:"true"`
	Port         string `envconfig:"MAGSYNC_APP_PORT" default:"8090"`
	LogLevel     string `envconfig:"MAGSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAGSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MAGSYNC_DB_DSN"`
	Driver string `envconfig:"MAGSYNC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAGSYNC_DB_HOST"`
	LegacyPort     int    `envconfig:"MAGSYNC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAGSYNC_DB_USER"`
	LegacyPassword string `envconfig:"MAGSYNC_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAGSYNC_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAGSYNC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAGSYNC_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAGSYNC_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MAGSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAGSYNC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAGSYNC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAGSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"MAGSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAGSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAGSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAGSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAGSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAGSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAGSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// MagentoConfig points the client at the storefront REST API.
type MagentoConfig struct {
	BaseURL        string        `envconfig:"MAGSYNC_MAGENTO_BASE_URL" required:"true"`
	AccessToken    string        `envconfig:"MAGSYNC_MAGENTO_ACCESS_TOKEN" required:"true"`
	PageSize       int           `envconfig:"MAGSYNC_MAGENTO_PAGE_SIZE" default:"50"`
	RequestTimeout time.Duration `envconfig:"MAGSYNC_MAGENTO_REQUEST_TIMEOUT" default:"30s"`
}

// SyncConfig carries the operator-maintained mapping tables and document
// defaults the sync pass depends on. PriceLists maps a Magento website
// name to a ledger selling price list; TaxAccounts maps a Magento tax
// code to a ledger account head. Both use envconfig map syntax
// ("key1:value1,key2:value2").
type SyncConfig struct {
	Interval time.Duration `envconfig:"MAGSYNC_SYNC_INTERVAL" default:"15m"`

	Company         string `envconfig:"MAGSYNC_SYNC_COMPANY" required:"true"`
	CustomerGroup   string `envconfig:"MAGSYNC_SYNC_CUSTOMER_GROUP" default:"Individual"`
	Territory       string `envconfig:"MAGSYNC_SYNC_TERRITORY" default:"All Territories"`
	CostCenter      string `envconfig:"MAGSYNC_SYNC_COST_CENTER" required:"true"`
	CashBankAccount string `envconfig:"MAGSYNC_SYNC_CASH_BANK_ACCOUNT" required:"true"`

	SalesOrderSeries   string `envconfig:"MAGSYNC_SYNC_SALES_ORDER_SERIES" default:"SO-MAGENTO-"`
	SalesInvoiceSeries string `envconfig:"MAGSYNC_SYNC_SALES_INVOICE_SERIES" default:"SINV-MAGENTO-"`
	DeliveryNoteSeries string `envconfig:"MAGSYNC_SYNC_DELIVERY_NOTE_SERIES" default:"DN-MAGENTO-"`

	PriceLists  map[string]string `envconfig:"MAGSYNC_SYNC_PRICE_LISTS" required:"true"`
	TaxAccounts map[string]string `envconfig:"MAGSYNC_SYNC_TAX_ACCOUNTS"`

	SyncSalesInvoice   bool `envconfig:"MAGSYNC_SYNC_SALES_INVOICE" default:"true"`
	SyncDeliveryNote   bool `envconfig:"MAGSYNC_SYNC_DELIVERY_NOTE" default:"false"`
	MarkOrdersComplete bool `envconfig:"MAGSYNC_SYNC_MARK_ORDERS_COMPLETE" default:"false"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MAGSYNC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MAGSYNC_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
