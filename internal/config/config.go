package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
	SourceSQLite   = "sqlite"
	SourceMongo    = "mongo"

	VarianceWelch  = "welch"
	VariancePooled = "pooled"

	MissingCategoryExclude = "exclude"
	MissingCategoryBucket  = "bucket"
)

const olistBaseURL = "https://raw.githubusercontent.com/olist/brazilian-ecommerce/master/"

type Config struct {
	Datasets  Datasets  `yaml:"datasets"`
	Databases Databases `yaml:"databases"`
	Fetch     Fetch     `yaml:"fetch"`
	Analysis  Analysis  `yaml:"analysis"`
	Output    Output    `yaml:"output"`
	Logging   Logging   `yaml:"logging"`
}

// Datasets holds one location per input table. For the csv source a location
// is a path or URL; for database sources it is a table or collection name.
type Datasets struct {
	Source     string `yaml:"source"`
	BaseURL    string `yaml:"base_url"`
	Orders     string `yaml:"orders"`
	OrderItems string `yaml:"order_items"`
	Products   string `yaml:"products"`
	Customers  string `yaml:"customers"`
	Reviews    string `yaml:"reviews"`
}

type Databases struct {
	Postgres      string `yaml:"postgres"`
	MySQL         string `yaml:"mysql"`
	SQLite        string `yaml:"sqlite"`
	Mongo         string `yaml:"mongo"`
	MongoDatabase string `yaml:"mongo_database"`
}

type Fetch struct {
	Timeout       string `yaml:"timeout"`
	MaxAttempts   int    `yaml:"max_attempts"`
	RetryInterval string `yaml:"retry_interval"`
}

type Analysis struct {
	TopCategories        int     `yaml:"top_categories"`
	SignificanceLevel    float64 `yaml:"significance_level"`
	Variance             string  `yaml:"variance"`
	TestMetric           string  `yaml:"test_metric"`
	MissingCategory      string  `yaml:"missing_category"`
	UnknownCategoryLabel string  `yaml:"unknown_category_label"`
}

type Output struct {
	Dashboard string `yaml:"dashboard"`
	PDF       string `yaml:"pdf"`
	JSON      string `yaml:"json"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Datasets: Datasets{
			Source:     SourceCSV,
			BaseURL:    olistBaseURL,
			Orders:     "olist_orders_dataset.csv",
			OrderItems: "olist_order_items_dataset.csv",
			Products:   "olist_products_dataset.csv",
			Customers:  "olist_customers_dataset.csv",
			Reviews:    "olist_order_reviews_dataset.csv",
		},
		Databases: Databases{
			MongoDatabase: "olist",
		},
		Fetch: Fetch{
			Timeout:       "60s",
			MaxAttempts:   3,
			RetryInterval: "500ms",
		},
		Analysis: Analysis{
			TopCategories:        10,
			SignificanceLevel:    0.05,
			Variance:             VarianceWelch,
			TestMetric:           "Customer Satisfaction",
			MissingCategory:      MissingCategoryExclude,
			UnknownCategoryLabel: "unknown",
		},
		Output: Output{
			Dashboard: "dashboard.html",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig decodes the yaml file at path over the defaults, then applies
// .env and ANALYZER_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnv() {
	override(&c.Datasets.Source, "ANALYZER_SOURCE")
	override(&c.Datasets.BaseURL, "ANALYZER_BASE_URL")
	override(&c.Databases.Postgres, "ANALYZER_POSTGRES_DSN")
	override(&c.Databases.MySQL, "ANALYZER_MYSQL_DSN")
	override(&c.Databases.SQLite, "ANALYZER_SQLITE_PATH")
	override(&c.Databases.Mongo, "ANALYZER_MONGO_URI")
	override(&c.Analysis.Variance, "ANALYZER_VARIANCE")
	override(&c.Output.Dashboard, "ANALYZER_DASHBOARD")
	override(&c.Output.PDF, "ANALYZER_PDF")
	override(&c.Output.JSON, "ANALYZER_JSON")
	override(&c.Logging.Level, "ANALYZER_LOG_LEVEL")
	override(&c.Logging.Format, "ANALYZER_LOG_FORMAT")

	if v := strings.TrimSpace(os.Getenv("ANALYZER_TOP_CATEGORIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.TopCategories = n
		}
	}
}

func override(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Datasets.Source {
	case SourceCSV, SourcePostgres, SourceMySQL, SourceSQLite, SourceMongo:
	default:
		errs = append(errs, fmt.Errorf("datasets.source: unsupported source %q", c.Datasets.Source))
	}

	switch c.Analysis.Variance {
	case VarianceWelch, VariancePooled:
	default:
		errs = append(errs, fmt.Errorf("analysis.variance: must be %q or %q, got %q", VarianceWelch, VariancePooled, c.Analysis.Variance))
	}

	switch c.Analysis.MissingCategory {
	case MissingCategoryExclude:
	case MissingCategoryBucket:
		if strings.TrimSpace(c.Analysis.UnknownCategoryLabel) == "" {
			errs = append(errs, errors.New("analysis.unknown_category_label: required when missing_category is bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("analysis.missing_category: must be %q or %q, got %q", MissingCategoryExclude, MissingCategoryBucket, c.Analysis.MissingCategory))
	}

	if c.Analysis.TopCategories <= 0 {
		errs = append(errs, fmt.Errorf("analysis.top_categories: must be positive, got %d", c.Analysis.TopCategories))
	}
	if c.Analysis.SignificanceLevel <= 0 || c.Analysis.SignificanceLevel >= 1 {
		errs = append(errs, fmt.Errorf("analysis.significance_level: must be in (0, 1), got %v", c.Analysis.SignificanceLevel))
	}
	if c.Fetch.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("fetch.max_attempts: must be positive, got %d", c.Fetch.MaxAttempts))
	}
	if _, err := c.Fetch.TimeoutDuration(); err != nil {
		errs = append(errs, fmt.Errorf("fetch.timeout: %w", err))
	}
	if _, err := c.Fetch.RetryIntervalDuration(); err != nil {
		errs = append(errs, fmt.Errorf("fetch.retry_interval: %w", err))
	}
	if strings.TrimSpace(c.Output.Dashboard) == "" {
		errs = append(errs, errors.New("output.dashboard: required"))
	}

	return errors.Join(errs...)
}

func (f Fetch) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(f.Timeout)
}

func (f Fetch) RetryIntervalDuration() (time.Duration, error) {
	return time.ParseDuration(f.RetryInterval)
}

// DSN returns the connection string configured for a database source.
func (d Databases) DSN(source string) string {
	switch source {
	case SourcePostgres:
		return d.Postgres
	case SourceMySQL:
		return d.MySQL
	case SourceSQLite:
		return d.SQLite
	case SourceMongo:
		return d.Mongo
	}
	return ""
}
