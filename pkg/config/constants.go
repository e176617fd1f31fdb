package config

const EnvPrefix = "MAGSYNC"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv           = "MAGSYNC_APP_ENV"
	EnvPort             = "MAGSYNC_APP_PORT"
	EnvDBDSN            = "MAGSYNC_DB_DSN"
	EnvDBHost           = "MAGSYNC_DB_HOST"
	EnvDBUser           = "MAGSYNC_DB_USER"
	EnvDBName           = "MAGSYNC_DB_NAME"
	EnvRedisURL         = "MAGSYNC_REDIS_URL"
	EnvMagentoBaseURL   = "MAGSYNC_MAGENTO_BASE_URL"
	EnvMagentoToken     = "MAGSYNC_MAGENTO_ACCESS_TOKEN"
	EnvSyncCompany      = "MAGSYNC_SYNC_COMPANY"
	EnvSyncCostCenter   = "MAGSYNC_SYNC_COST_CENTER"
	EnvSyncBankAccount  = "MAGSYNC_SYNC_CASH_BANK_ACCOUNT"
	EnvSyncPriceLists   = "MAGSYNC_SYNC_PRICE_LISTS"
	EnvSyncTaxAccounts  = "MAGSYNC_SYNC_TAX_ACCOUNTS"
	EnvSyncDeliveryNote = "MAGSYNC_SYNC_DELIVERY_NOTE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
