/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT       = "5001"
	DEFAULT_DRIVER     = "sqlite3"
	DEFAULT_SQLITE_DNS = "caixa.db"
	DEFAULT_MAX_ERRORS = 20

	DEFAULT_CERT_STORAGE = "certs"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"CAIXA_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"CAIXA_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"CAIXA_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"CAIXA_SERVER_PORT"`
	Domain    string `json:"domain" envconfig:"CAIXA_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"CAIXA_SERVER_SSL_EMAIL"`

	// CertStorage is where issued certificates are kept.
	CertStorage string `json:"cert_storage" envconfig:"CAIXA_SERVER_CERT_STORAGE"`
}

// TracingConfig enables span export over OTLP/HTTP. The collector endpoint
// comes from the standard OTEL_EXPORTER_OTLP_ENDPOINT variable.
type TracingConfig struct {
	Enabled bool `json:"enabled" envconfig:"CAIXA_TRACING_ENABLED"`
}

type DataSourceConfig struct {
	Driver string `json:"driver" envconfig:"CAIXA_DATA_SOURCE_DRIVER"`
	Dns    string `json:"dns" envconfig:"CAIXA_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"CAIXA_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"CAIXA_REDIS_SKIP_TLS_VERIFY"`
}

// CacheConfig controls the local tier kept in front of the data source.
type CacheConfig struct {
	Enabled    bool `json:"enabled" envconfig:"CAIXA_CACHE_ENABLED"`
	TTLSeconds int  `json:"ttl_seconds" envconfig:"CAIXA_CACHE_TTL_SECONDS"`
	Size       int  `json:"size" envconfig:"CAIXA_CACHE_SIZE"`
}

type ImportConfig struct {
	MaxErrors int `json:"max_errors" envconfig:"CAIXA_IMPORT_MAX_ERRORS"`
}

type SettlementConfig struct {
	// EnforcePaymentCap rejects payments larger than the remaining balance.
	EnforcePaymentCap bool `json:"enforce_payment_cap" envconfig:"CAIXA_SETTLEMENT_ENFORCE_PAYMENT_CAP"`
}

type CategorizationConfig struct {
	RulesFile string `json:"rules_file" envconfig:"CAIXA_CATEGORIZATION_RULES_FILE"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"CAIXA_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"CAIXA_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"CAIXA_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"CAIXA_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type LoggingConfig struct {
	Level string `json:"level" envconfig:"CAIXA_LOG_LEVEL"`
}

type Configuration struct {
	ProjectName    string               `json:"project_name" envconfig:"CAIXA_PROJECT_NAME"`
	Server         ServerConfig         `json:"server"`
	DataSource     DataSourceConfig     `json:"data_source"`
	Redis          RedisConfig          `json:"redis"`
	Cache          CacheConfig          `json:"cache"`
	Import         ImportConfig         `json:"import"`
	Settlement     SettlementConfig     `json:"settlement"`
	Categorization CategorizationConfig `json:"categorization"`
	Notification   Notification         `json:"notification"`
	RateLimit      RateLimitConfig      `json:"rate_limit"`
	Logging        LoggingConfig        `json:"logging"`
	Tracing        TracingConfig        `json:"tracing"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("caixa", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	if err := loadConfigFromFile(configFile); err != nil {
		return err
	}
	cnf, err := Fetch()
	if err != nil {
		return err
	}
	return setLogLevel(cnf.Logging.Level)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called caixa.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Caixa"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Driver = strings.ToLower(strings.TrimSpace(cnf.DataSource.Driver))
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.DataSource.Driver == "" {
		cnf.DataSource.Driver = DEFAULT_DRIVER
		log.Printf("Warning: Data source driver not specified. Setting default driver: %s", DEFAULT_DRIVER)
	}

	switch cnf.DataSource.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cnf.DataSource.Dns == "" {
			cnf.DataSource.Dns = DEFAULT_SQLITE_DNS
			log.Printf("Warning: Data source DNS is empty. Using local file: %s", DEFAULT_SQLITE_DNS)
		}
	case DriverPostgres, DriverMySQL:
		if cnf.DataSource.Dns == "" {
			log.Println("Error: Data source DNS is empty. It's a required field.")
			return errors.New("data source DNS is required")
		}
	case DriverRedis:
		if cnf.Redis.Dns == "" {
			log.Println("Error: Redis DNS is empty. It's required by the redis driver.")
			return errors.New("redis DNS is required")
		}
	default:
		return fmt.Errorf("unsupported data source driver %q", cnf.DataSource.Driver)
	}

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Server.SSL && cnf.Server.CertStorage == "" {
		cnf.Server.CertStorage = DEFAULT_CERT_STORAGE
	}

	if cnf.Cache.TTLSeconds <= 0 {
		cnf.Cache.TTLSeconds = 60
	}
	if cnf.Cache.Size <= 0 {
		cnf.Cache.Size = 1000
	}

	if cnf.Import.MaxErrors <= 0 {
		cnf.Import.MaxErrors = DEFAULT_MAX_ERRORS
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}

func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	return nil
}
