package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	Payment PaymentConfig
}

type AppConfig struct {
	Port    string
	Env     string
	BaseURL string
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type BookingConfig struct {
	// SlotDuration is the discretization step for bookable slots.
	SlotDuration time.Duration
	// LeadTime is the minimum notice before a same-day slot can be booked.
	LeadTime time.Duration
	// SlotCacheTTL bounds how long a computed day of slots may be served
	// from Redis before recomputation.
	SlotCacheTTL time.Duration
}

type PaymentConfig struct {
	GatewayURL    string
	SecretKey     string
	WebhookSecret string
	Currency      string
	// SignatureTolerance rejects event signatures whose timestamp is older
	// than this, limiting replay.
	SignatureTolerance time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	slotDuration, err := time.ParseDuration(viper.GetString("BOOKING_SLOT_DURATION"))
	if err != nil {
		slotDuration = 2 * time.Hour
	}

	leadTime, err := time.ParseDuration(viper.GetString("BOOKING_LEAD_TIME"))
	if err != nil {
		leadTime = 30 * time.Minute
	}

	slotCacheTTL, err := time.ParseDuration(viper.GetString("BOOKING_SLOT_CACHE_TTL"))
	if err != nil {
		slotCacheTTL = time.Minute
	}

	signatureTolerance, err := time.ParseDuration(viper.GetString("PAYMENT_SIGNATURE_TOLERANCE"))
	if err != nil {
		signatureTolerance = 5 * time.Minute
	}

	currency := viper.GetString("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "EUR"
	}

	migrationsPath := viper.GetString("DB_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "file://db/migrations"
	}

	config := &Config{
		App: AppConfig{
			Port:    viper.GetString("APP_PORT"),
			Env:     viper.GetString("APP_ENV"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		DB: DBConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Name:           viper.GetString("DB_NAME"),
			MigrationsPath: migrationsPath,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: BookingConfig{
			SlotDuration: slotDuration,
			LeadTime:     leadTime,
			SlotCacheTTL: slotCacheTTL,
		},
		Payment: PaymentConfig{
			GatewayURL:         viper.GetString("PAYMENT_GATEWAY_URL"),
			SecretKey:          viper.GetString("PAYMENT_SECRET_KEY"),
			WebhookSecret:      viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			Currency:           currency,
			SignatureTolerance: signatureTolerance,
		},
	}

	return config, nil
}
