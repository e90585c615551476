package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/spf13/viper"
)

type Config struct {
	DataDir           string             `json:"data_dir" mapstructure:"data_dir"`
	ShardDir          string             `json:"shard_dir" mapstructure:"shard_dir"`
	MarkerFile        string             `json:"marker_file" mapstructure:"marker_file"`
	ChunkSize         int                `json:"chunk_size" mapstructure:"chunk_size"`
	ScaleFactor       int                `json:"scale_factor" mapstructure:"scale_factor"`
	BaseCustomerCount int                `json:"num_customer" mapstructure:"num_customer"`
	Workers           int                `json:"workers" mapstructure:"workers"`
	Seed              uint64             `json:"seed" mapstructure:"seed"`
	PollInterval      time.Duration      `json:"poll_interval" mapstructure:"poll_interval"`
	Log               Log                `json:"log" mapstructure:"log"`
	Entities          map[string]Cadence `json:"entities" mapstructure:"entities"`
	Warehouse         Warehouse          `json:"warehouse" mapstructure:"warehouse"`
	Retry             Retry              `json:"retry" mapstructure:"retry"`
}

// Cadence bounds one continuous worker: batch sizes in rows, sleeps in seconds.
type Cadence struct {
	MinBatch int `json:"min_batch" mapstructure:"min_batch"`
	MaxBatch int `json:"max_batch" mapstructure:"max_batch"`
	MinSleep int `json:"min_sleep" mapstructure:"min_sleep"`
	MaxSleep int `json:"max_sleep" mapstructure:"max_sleep"`
}

func (c Cadence) MinSleepDuration() time.Duration { return time.Duration(c.MinSleep) * time.Second }
func (c Cadence) MaxSleepDuration() time.Duration { return time.Duration(c.MaxSleep) * time.Second }

type Log struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

type Warehouse struct {
	Provider  string `json:"provider" mapstructure:"provider"`
	URLEnv    string `json:"url_env" mapstructure:"url_env"`
	BatchSize int    `json:"batch_size" mapstructure:"batch_size"`
}

type Retry struct {
	MaxAttempts int           `json:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay   time.Duration `json:"base_delay" mapstructure:"base_delay"`
}

// defaultCadences holds the continuous-phase defaults per entity:
// max batch, min sleep, max sleep.
var defaultCadences = map[entity.Type][3]int{
	entity.Customer:       {100, 300, 600},
	entity.Account:        {50, 180, 300},
	entity.Transaction:    {1000, 30, 300},
	entity.Loan:           {20, 600, 900},
	entity.Branch:         {2, 3600, 7200},
	entity.Marketing:      {10, 120, 240},
	entity.DigitalSession: {200, 30, 120},
	entity.RiskAlert:      {50, 300, 600},
	entity.Share:          {100, 60, 180},
	entity.Depot:          {20, 600, 900},
	entity.AMLRecord:      {30, 900, 1800},
}

// SetDefaults registers defaults and the environment names understood by
// every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("shard_dir", "")
	v.SetDefault("marker_file", "")
	v.SetDefault("chunk_size", 10000)
	v.SetDefault("scale_factor", 20)
	v.SetDefault("num_customer", 2500)
	v.SetDefault("workers", 0)
	v.SetDefault("seed", 42)
	v.SetDefault("poll_interval", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("warehouse.provider", "postgresql")
	v.SetDefault("warehouse.url_env", "DATABASE_URL")
	v.SetDefault("warehouse.batch_size", 500)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", 200*time.Millisecond)

	for t, d := range defaultCadences {
		prefix := "entities." + t.String() + "."
		v.SetDefault(prefix+"min_batch", 1)
		v.SetDefault(prefix+"max_batch", d[0])
		v.SetDefault(prefix+"min_sleep", d[1])
		v.SetDefault(prefix+"max_sleep", d[2])

		key := t.EnvKey()
		_ = v.BindEnv(prefix+"min_batch", "MIN_BATCH_"+key)
		_ = v.BindEnv(prefix+"max_batch", "MAX_BATCH_"+key)
		_ = v.BindEnv(prefix+"min_sleep", "MIN_SLEEP_TIME_"+key)
		_ = v.BindEnv(prefix+"max_sleep", "MAX_SLEEP_TIME_"+key)
	}
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ShardDir == "" {
		cfg.ShardDir = filepath.Join(cfg.DataDir, "temp")
	}
	if cfg.MarkerFile == "" {
		cfg.MarkerFile = filepath.Join(cfg.DataDir, "initial_complete.flag")
	}
	if cfg.Entities == nil {
		cfg.Entities = make(map[string]Cadence)
	}

	return &cfg, nil
}

// CustomerCount is the bulk-phase customer volume.
func (c *Config) CustomerCount() int {
	return c.BaseCustomerCount * c.ScaleFactor
}

// CadenceFor returns the continuous cadence of t.
func (c *Config) CadenceFor(t entity.Type) Cadence {
	if cad, ok := c.Entities[t.String()]; ok {
		return cad
	}
	d := defaultCadences[t]
	return Cadence{MinBatch: 1, MaxBatch: d[0], MinSleep: d[1], MaxSleep: d[2]}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Warehouse.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Warehouse.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.ShardDir,
		filepath.Dir(c.MarkerFile),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.ShardDir == "" {
		return fmt.Errorf("shard_dir cannot be empty")
	}
	for _, protected := range [][2]string{
		{"data_dir", c.DataDir},
		{"marker directory", filepath.Dir(c.MarkerFile)},
	} {
		within, err := contains(c.ShardDir, protected[1])
		if err != nil {
			return err
		}
		if within {
			return fmt.Errorf("shard_dir %q must not contain the %s %q", c.ShardDir, protected[0], protected[1])
		}
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ScaleFactor <= 0 {
		return fmt.Errorf("scale_factor must be positive, got %d", c.ScaleFactor)
	}
	if c.BaseCustomerCount <= 0 {
		return fmt.Errorf("num_customer must be positive, got %d", c.BaseCustomerCount)
	}
	if n := int64(c.CustomerCount()); n > bank.CustomerSpace.Capacity {
		return fmt.Errorf("%d customers exceed the customer id space %s", n, bank.CustomerSpace)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay cannot be negative")
	}

	for _, t := range entity.Types() {
		cad := c.CadenceFor(t)
		if cad.MinBatch < 1 || cad.MaxBatch < cad.MinBatch {
			return fmt.Errorf("%s: batch range [%d, %d] is invalid", t, cad.MinBatch, cad.MaxBatch)
		}
		if cad.MinSleep < 0 || cad.MaxSleep < cad.MinSleep {
			return fmt.Errorf("%s: sleep range [%d, %d] is invalid", t, cad.MinSleep, cad.MaxSleep)
		}
	}

	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Warehouse.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported warehouse provider: %s. Supported providers: %v", c.Warehouse.Provider, supportedProviders)
	}
	if c.Warehouse.BatchSize <= 0 {
		return fmt.Errorf("warehouse.batch_size must be positive")
	}

	return nil
}

// contains reports whether dir is parent or equal to target.
func contains(dir, target string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", dir, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", target, err)
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
