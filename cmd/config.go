package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"dronedelivery/internal/adapters/out/postgres"
	"dronedelivery/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the process configuration. Values come from flags, the
// environment (upper-case key names) and an optional .env file, in that order
// of precedence, over the defaults set by SetDefaults.
type Config struct {
	HTTPPort string `mapstructure:"http_port"`
	// HTTPRateLimit is requests per second per client; 0 disables limiting.
	HTTPRateLimit float64 `mapstructure:"http_rate_limit"`

	DepotX float64 `mapstructure:"depot_x"`
	DepotY float64 `mapstructure:"depot_y"`

	// JournalDriver is "postgres", "sqlite" or empty to disable the journal.
	JournalDriver string `mapstructure:"journal_driver"`
	// JournalDSN overrides the DSN built from the DB_* settings.
	JournalDSN string `mapstructure:"journal_dsn"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	// KafkaBrokers enables notification publishing when non-empty.
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`

	// AutoAllocateSchedule is a six-field cron spec; empty disables the job.
	AutoAllocateSchedule  string `mapstructure:"auto_allocate_schedule"`
	AutoAllocateOptimizer bool   `mapstructure:"auto_allocate_optimizer"`

	SimulationSpeed     float64 `mapstructure:"simulation_speed"`
	AutoStartSimulation bool    `mapstructure:"auto_start_simulation"`
	CombinationCap      int     `mapstructure:"combination_cap"`

	ScenarioFile   string `mapstructure:"scenario_file"`
	RandomVehicles int    `mapstructure:"random_vehicles"`
	RandomOrders   int    `mapstructure:"random_orders"`
	RandomZones    int    `mapstructure:"random_zones"`
	RandomSeed     int64  `mapstructure:"random_seed"`

	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SetDefaults registers every key with its default so AutomaticEnv can find it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("http_rate_limit", 0.0)
	v.SetDefault("depot_x", 0.0)
	v.SetDefault("depot_y", 0.0)
	v.SetDefault("journal_driver", "")
	v.SetDefault("journal_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "dronedelivery")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("kafka_topic", "drone-notifications")
	v.SetDefault("auto_allocate_schedule", "")
	v.SetDefault("auto_allocate_optimizer", true)
	v.SetDefault("simulation_speed", 60.0)
	v.SetDefault("auto_start_simulation", false)
	v.SetDefault("combination_cap", 50)
	v.SetDefault("scenario_file", "")
	v.SetDefault("random_vehicles", 0)
	v.SetDefault("random_orders", 0)
	v.SetDefault("random_zones", 0)
	v.SetDefault("random_seed", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// LoadConfig reads envFile into the environment when it exists, then decodes
// v into a Config. A missing envFile is not an error.
func LoadConfig(v *viper.Viper, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("http_port"))
	}
	switch c.JournalDriver {
	case "", postgres.DriverPostgres, postgres.DriverSQLite:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("journal_driver",
			fmt.Errorf("%q is not one of %s, %s", c.JournalDriver, postgres.DriverPostgres, postgres.DriverSQLite)))
	}
	if c.JournalDriver == postgres.DriverSQLite && c.JournalDSN == "" {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("journal_dsn",
			errors.New("the sqlite journal needs a file path")))
	}
	if c.HTTPRateLimit < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("http_rate_limit",
			fmt.Errorf("%v is negative", c.HTTPRateLimit)))
	}
	if c.SimulationSpeed < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("simulation_speed",
			fmt.Errorf("%v is negative", c.SimulationSpeed)))
	}
	if c.RandomVehicles < 0 || c.RandomOrders < 0 || c.RandomZones < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("random_*",
			errors.New("counts must not be negative")))
	}
	return errors.Join(problems...)
}

// JournalEnabled reports whether deliveries are persisted.
func (c Config) JournalEnabled() bool {
	return c.JournalDriver != ""
}

// DSN returns JournalDSN, or for postgres a DSN assembled from the DB_* settings.
func (c Config) DSN() string {
	if c.JournalDSN != "" || c.JournalDriver != postgres.DriverPostgres {
		return c.JournalDSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
