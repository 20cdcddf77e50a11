package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTSecret     string `env:"JWT_SECRET"`

	// BusinessTimezone - зона для границ календарного месяца уровней,
	// суток выручки и временных меток шлюза.
	BusinessTimezone string `env:"BUSINESS_TIMEZONE"`

	VNPayURL        string `env:"VNPAY_URL"`
	VNPayTmnCode    string `env:"VNPAY_TMN_CODE"`
	VNPayHashSecret string `env:"VNPAY_HASH_SECRET"`
	VNPayReturnURL  string `env:"VNPAY_RETURN_URL"`
}

func LoadConfig() (*Config, error) {
	// .env опционален, в проде переменные приходят из окружения.
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	if conf.VNPayHashSecret == "" {
		return nil, errors.New("VNPay hash secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	flag.StringVar(&flagConfig.BusinessTimezone, "tz", "Asia/Ho_Chi_Minh", "Business timezone")
	flag.StringVar(&flagConfig.VNPayURL, "vnpay-url",
		"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", "VNPay payment page URL")
	flag.StringVar(&flagConfig.VNPayTmnCode, "vnpay-tmn", "", "VNPay terminal code")
	flag.StringVar(&flagConfig.VNPayHashSecret, "vnpay-secret", "", "VNPay hash secret")
	flag.StringVar(&flagConfig.VNPayReturnURL, "vnpay-return",
		"http://localhost:8080/api/payment/vnpay-return", "VNPay return URL")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:       defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:      defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:    defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTSecret:        defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		BusinessTimezone: defaultIfBlank(envConfig.BusinessTimezone, flagsConfig.BusinessTimezone),
		VNPayURL:         defaultIfBlank(envConfig.VNPayURL, flagsConfig.VNPayURL),
		VNPayTmnCode:     defaultIfBlank(envConfig.VNPayTmnCode, flagsConfig.VNPayTmnCode),
		VNPayHashSecret:  defaultIfBlank(envConfig.VNPayHashSecret, flagsConfig.VNPayHashSecret),
		VNPayReturnURL:   defaultIfBlank(envConfig.VNPayReturnURL, flagsConfig.VNPayReturnURL),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
