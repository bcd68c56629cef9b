package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rana718/quickshop/internal/generator"
	"github.com/spf13/viper"
)

const EnvPrefix = "QUICKSHOP"

const dateLayout = "2006-01-02"

type Config struct {
	DataDir  string       `json:"data_dir" mapstructure:"data_dir"`
	Seed     int64        `json:"seed" mapstructure:"seed"`
	Generate Generate     `json:"generate" mapstructure:"generate"`
	Load     LoadSettings `json:"load" mapstructure:"load"`
	SQLite   SQLite       `json:"sqlite" mapstructure:"sqlite"`
	MySQL    MySQL        `json:"mysql" mapstructure:"mysql"`
	Postgres Postgres     `json:"postgres" mapstructure:"postgres"`
}

type Generate struct {
	Shops       int    `json:"shops" mapstructure:"shops"`
	MaxProducts int    `json:"max_products" mapstructure:"max_products"`
	Customers   int    `json:"customers" mapstructure:"customers"`
	Orders      int    `json:"orders" mapstructure:"orders"`
	Promotions  int    `json:"promotions" mapstructure:"promotions"`
	StartDate   string `json:"start_date" mapstructure:"start_date"`
	EndDate     string `json:"end_date" mapstructure:"end_date"`
}

// LoadSettings controls how CSV files are written to a target.
type LoadSettings struct {
	BatchSize    int  `json:"batch_size" mapstructure:"batch_size"`
	AtomicTables bool `json:"atomic_tables" mapstructure:"atomic_tables"`
	Reset        bool `json:"reset" mapstructure:"reset"`
}

type SQLite struct {
	Path       string `json:"path" mapstructure:"path"`
	SchemaPath string `json:"schema_path" mapstructure:"schema_path"`
}

type MySQL struct {
	Host           string        `json:"host" mapstructure:"host"`
	Port           int           `json:"port" mapstructure:"port"`
	User           string        `json:"user" mapstructure:"user"`
	Password       string        `json:"password" mapstructure:"password"`
	Database       string        `json:"database" mapstructure:"database"`
	SchemaPath     string        `json:"schema_path" mapstructure:"schema_path"`
	ApplySchema    bool          `json:"apply_schema" mapstructure:"apply_schema"`
	ConnectTimeout time.Duration `json:"connect_timeout" mapstructure:"connect_timeout"`
}

type Postgres struct {
	URLEnv      string `json:"url_env" mapstructure:"url_env"`
	SchemaPath  string `json:"schema_path" mapstructure:"schema_path"`
	ApplySchema bool   `json:"apply_schema" mapstructure:"apply_schema"`
}

// Bind registers defaults and environment lookups on v. Every key can
// be overridden by QUICKSHOP_<KEY>, dots replaced by underscores.
func Bind(v *viper.Viper) {
	gen := generator.DefaultConfig()

	v.SetDefault("data_dir", "data")
	v.SetDefault("seed", 42)

	v.SetDefault("generate.shops", gen.Shops)
	v.SetDefault("generate.max_products", gen.MaxProducts)
	v.SetDefault("generate.customers", gen.Customers)
	v.SetDefault("generate.orders", gen.Orders)
	v.SetDefault("generate.promotions", gen.Promotions)
	v.SetDefault("generate.start_date", gen.Start.Format(dateLayout))
	v.SetDefault("generate.end_date", gen.End.Format(dateLayout))

	v.SetDefault("load.batch_size", 1000)
	v.SetDefault("load.atomic_tables", false)
	v.SetDefault("load.reset", false)

	v.SetDefault("sqlite.path", "quickshop.db")
	v.SetDefault("sqlite.schema_path", "")

	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "quickshop")
	v.SetDefault("mysql.schema_path", "")
	v.SetDefault("mysql.apply_schema", true)
	v.SetDefault("mysql.connect_timeout", "10s")

	v.SetDefault("postgres.url_env", "DATABASE_URL")
	v.SetDefault("postgres.schema_path", "")
	v.SetDefault("postgres.apply_schema", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("load.batch_size must be positive, got %d", c.Load.BatchSize)
	}
	if c.MySQL.Port <= 0 || c.MySQL.Port > 65535 {
		return fmt.Errorf("mysql.port out of range: %d", c.MySQL.Port)
	}
	if c.MySQL.ConnectTimeout < 0 {
		return fmt.Errorf("mysql.connect_timeout cannot be negative")
	}

	gen, err := c.GeneratorConfig()
	if err != nil {
		return err
	}
	return gen.Validate()
}

// GeneratorConfig converts the generate section into generator settings.
func (c *Config) GeneratorConfig() (generator.Config, error) {
	start, err := time.Parse(dateLayout, c.Generate.StartDate)
	if err != nil {
		return generator.Config{}, fmt.Errorf("invalid generate.start_date %q: %w", c.Generate.StartDate, err)
	}
	end, err := time.Parse(dateLayout, c.Generate.EndDate)
	if err != nil {
		return generator.Config{}, fmt.Errorf("invalid generate.end_date %q: %w", c.Generate.EndDate, err)
	}

	return generator.Config{
		Shops:       c.Generate.Shops,
		MaxProducts: c.Generate.MaxProducts,
		Customers:   c.Generate.Customers,
		Orders:      c.Generate.Orders,
		Promotions:  c.Generate.Promotions,
		Start:       start,
		End:         end,
	}, nil
}

// GetDatabaseURL returns the PostgreSQL URL from the environment variable
// named by postgres.url_env.
func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Postgres.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Postgres.URLEnv)
	}
	return dbURL, nil
}
