package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       string `envconfig:"PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	InstanceID string `envconfig:"INSTANCE_ID"`

	AWSRegion        string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	ProductTableName string `envconfig:"PRODUCT_TABLE_NAME" default:"products-table"`
	CatalogBackend   string `envconfig:"CATALOG_BACKEND" default:"dynamodb"`
	DatabaseDriver   string `envconfig:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseDSN      string `envconfig:"DATABASE_DSN" default:"file:storefront.db?_pragma=busy_timeout(5000)"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	CartTTL       time.Duration `envconfig:"CART_TTL" default:"168h"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"storefront-events"`
	KafkaGroupID string   `envconfig:"KAFKA_GROUP_ID" default:"storefront-catalog"`

	AdminPassword     string  `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordHash string  `envconfig:"ADMIN_PASSWORD_HASH"`
	LoginRateCapacity int     `envconfig:"LOGIN_RATE_CAPACITY" default:"5"`
	LoginRateRefill   float64 `envconfig:"LOGIN_RATE_REFILL" default:"0.1"`

	ImageStore   string `envconfig:"IMAGE_STORE" default:"local"`
	ImageBucket  string `envconfig:"IMAGE_BUCKET"`
	ImageBaseURL string `envconfig:"IMAGE_BASE_URL" default:"http://localhost:8080/uploads"`
	ImageDir     string `envconfig:"IMAGE_DIR" default:"uploads"`

	TaxRate           string   `envconfig:"TAX_RATE" default:"0.08"`
	DeliveryAreasFile string   `envconfig:"DELIVERY_AREAS_FILE"`
	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"*"`

	TLSEnabled    bool   `envconfig:"TLS_ENABLED" default:"false"`
	TLSSocketPath string `envconfig:"TLS_SOCKET_PATH" default:"unix:///run/spire/sockets/agent.sock"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID, _ = os.Hostname()
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogBackend {
	case "dynamodb", "sql":
	default:
		return fmt.Errorf("CATALOG_BACKEND must be dynamodb or sql, got %q", c.CatalogBackend)
	}
	switch c.ImageStore {
	case "local", "s3":
	default:
		return fmt.Errorf("IMAGE_STORE must be local or s3, got %q", c.ImageStore)
	}
	if c.ImageStore == "s3" && c.ImageBucket == "" {
		return fmt.Errorf("IMAGE_BUCKET is required when IMAGE_STORE=s3")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if _, err := c.Tax(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Tax() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil || rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("TAX_RATE must be a non-negative decimal, got %q", c.TaxRate)
	}
	return rate, nil
}

//go:embed delivery_areas.yaml
var defaultDeliveryAreas []byte

type deliveryAreasFile struct {
	Areas []domain.DeliveryArea `yaml:"areas"`
}

// DeliveryAreas reads the areas from DELIVERY_AREAS_FILE, or the built-in
// list when unset.
func (c *Config) DeliveryAreas() ([]domain.DeliveryArea, error) {
	data := defaultDeliveryAreas
	if c.DeliveryAreasFile != "" {
		var err error
		if data, err = os.ReadFile(c.DeliveryAreasFile); err != nil {
			return nil, fmt.Errorf("failed to read delivery areas file %s: %w", c.DeliveryAreasFile, err)
		}
	}
	return ParseDeliveryAreas(data)
}

func ParseDeliveryAreas(data []byte) ([]domain.DeliveryArea, error) {
	var file deliveryAreasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse delivery areas: %w", err)
	}
	seen := make(map[string]bool, len(file.Areas))
	for i, area := range file.Areas {
		if area.Code == "" {
			return nil, fmt.Errorf("delivery area %d has no code", i)
		}
		code := strings.ToLower(area.Code)
		if seen[code] {
			return nil, fmt.Errorf("duplicate delivery area code %q", area.Code)
		}
		seen[code] = true
		if area.Coverage == nil {
			file.Areas[i].Coverage = []string{}
		}
	}
	return file.Areas, nil
}
