package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ServiceName     string
	ServicePort     string
	MetricsPort     string
	LogLevel        string
	MongoDBConfig   MongoDBConfig
	JWTConfig       JWTConfig
	KafkaConfig     KafkaConfig
	TracingConfig   TracingConfig
	StorageConfig   StorageConfig
	PricingConfig   PricingConfig
	SMTPConfig      SMTPConfig
	AdminConfig     AdminConfig
	SchedulerConfig SchedulerConfig
}

type MongoDBConfig struct {
	DBURI  string
	DBHost string
	DBPort string
	DBName string
}

// URI prefers an explicit DB_URI and falls back to host and port.
func (c MongoDBConfig) URI() string {
	if c.DBURI != "" {
		return c.DBURI
	}

	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

type JWTConfig struct {
	Secret    string
	Header    string
	ExpiresIn time.Duration
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
	BrokerGroupID   string
}

// Enabled reports whether a broker has been configured.
func (c KafkaConfig) Enabled() bool {
	return c.BrokerAddress != "" && c.BrokerTopic != ""
}

type TracingConfig struct {
	CollectorHost string
}

type StorageConfig struct {
	UploadDir     string
	URLPrefix     string
	MaxUploadSize int64
}

type PricingConfig struct {
	TaxRate               decimal.Decimal
	ShippingPrice         decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	// Location is the zone timestamps are shown in inside emails.
	Location *time.Location
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Sender != ""
}

type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type SchedulerConfig struct {
	RatingReconcileInterval time.Duration
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServiceName: getEnv("SERVICE_NAME", "storefront-service"),
		ServicePort: getEnv("SERVICE_PORT", "5000"),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MongoDBConfig: MongoDBConfig{
			DBURI:  os.Getenv("DB_URI"),
			DBHost: getEnv("DB_HOST", "localhost"),
			DBPort: getEnv("DB_PORT", "27017"),
			DBName: getEnv("DB_NAME", "storefront"),
		},
		JWTConfig: JWTConfig{
			Secret:    os.Getenv("JWT_SECRET"),
			Header:    getEnv("JWT_HEADER", "x-auth-token"),
			ExpiresIn: getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress:   os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:     os.Getenv("BROKER_TOPIC"),
			BrokerPartition: getInt("BROKER_PARTITION", 0),
			BrokerGroupID:   getEnv("BROKER_GROUP_ID", "storefront-service"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		StorageConfig: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			URLPrefix:     getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxUploadSize: int64(getInt("MAX_UPLOAD_SIZE", 5<<20)),
		},
		PricingConfig: PricingConfig{
			TaxRate:               getDecimal("TAX_RATE", decimal.RequireFromString("0.15")),
			ShippingPrice:         getDecimal("SHIPPING_PRICE", decimal.NewFromInt(10)),
			FreeShippingThreshold: getDecimal("FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(100)),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Location: getLocation("NOTIFICATION_TIMEZONE", time.UTC),
		},
		AdminConfig: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		SchedulerConfig: SchedulerConfig{
			RatingReconcileInterval: getDuration("RATING_RECONCILE_INTERVAL", time.Hour),
		},
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}

	return v
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}

func getLocation(key string, fallback *time.Location) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return fallback
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}

	return location
}
