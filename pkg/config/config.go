package config

import (
	"fmt"
	"os"
	"time"

	"github.com/codingconcepts/env"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/c9s/indicalc/pkg/calculator"
	"github.com/c9s/indicalc/pkg/envvar"
	"github.com/c9s/indicalc/pkg/indicator"
	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/supervisor"
	"github.com/c9s/indicalc/pkg/types"
)

type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver" env:"DB_DRIVER"`
	DSN    string `json:"dsn" yaml:"dsn" env:"DB_DSN"`
}

type WorkerConfig struct {
	Sleep      time.Duration `json:"sleep" yaml:"sleep"`
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
}

type SupervisorConfig struct {
	StartupDelay time.Duration `json:"startupDelay" yaml:"startupDelay"`
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
}

type LoggingConfig struct {
	// File enables the json log file when set.
	File       string `json:"file,omitempty" yaml:"file,omitempty" env:"INDICALC_LOG_FILE"`
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" yaml:"maxAgeDays,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
}

type PersistenceConfig struct {
	Json  *service.JsonPersistenceConfig  `json:"json,omitempty" yaml:"json,omitempty"`
	Redis *service.RedisPersistenceConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type StatusConfig struct {
	// Persistence is the store type of the pair statuses: memory, json or redis.
	Persistence string `json:"persistence,omitempty" yaml:"persistence,omitempty"`
}

type ServerConfig struct {
	// Bind enables the http server when set, e.g. ":8080".
	Bind string `json:"bind,omitempty" yaml:"bind,omitempty" env:"INDICALC_SERVER_BIND"`
}

type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`

	// AmountOfData is the page size of a candle fetch.
	AmountOfData int `json:"amountOfData" yaml:"amountOfData" env:"INDICALC_AMOUNT_OF_DATA"`

	Assets     StringSlice      `json:"assets" yaml:"assets"`
	Timeframes []types.Interval `json:"timeframes" yaml:"timeframes"`

	Indicators indicator.Config `json:"indicators" yaml:"indicators"`

	Worker      WorkerConfig      `json:"worker" yaml:"worker"`
	Supervisor  SupervisorConfig  `json:"supervisor" yaml:"supervisor"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`
	Status      StatusConfig      `json:"status" yaml:"status"`
	Server      ServerConfig      `json:"server" yaml:"server"`

	Progress bool `json:"progress" yaml:"progress"`
}

// Load reads the yaml config file, applies the environment overrides and the defaults,
// then validates the result.
func Load(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", configFile)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", configFile)
	}

	return &config, nil
}

func (c *Config) applyEnv() error {
	for _, target := range []interface{}{&c.Database, c, &c.Logging, &c.Server} {
		if err := env.Set(target); err != nil {
			return errors.Wrap(err, "unable to read the environment")
		}
	}

	if c.Persistence.Redis != nil {
		if err := env.Set(c.Persistence.Redis); err != nil {
			return errors.Wrap(err, "unable to read the redis environment")
		}
	}

	if assets, ok := envvar.List("INDICALC_ASSETS"); ok {
		c.Assets = nil
		c.Assets.add(assets...)
	}

	if du, ok := envvar.Duration("INDICALC_WORKER_SLEEP"); ok {
		c.Worker.Sleep = du
	}

	if du, ok := envvar.Duration("INDICALC_RETRY_DELAY"); ok {
		c.Worker.RetryDelay = du
	}

	return nil
}

func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}

	if c.AmountOfData <= 0 {
		c.AmountOfData = calculator.DefaultAmountOfData
	}

	if len(c.Timeframes) == 0 {
		for interval := range types.SupportedIntervals {
			c.Timeframes = append(c.Timeframes, interval)
		}

		types.IntervalSlice(c.Timeframes).Sort()
	}

	// a kind left out keeps its defaults, an explicit empty list disables it
	defaults := indicator.DefaultConfig()
	if c.Indicators.EMAPeriods == nil {
		c.Indicators.EMAPeriods = defaults.EMAPeriods
	}

	if c.Indicators.SMAPeriods == nil {
		c.Indicators.SMAPeriods = defaults.SMAPeriods
	}

	if c.Indicators.ATRPeriods == nil {
		c.Indicators.ATRPeriods = defaults.ATRPeriods
	}

	if c.Worker.Sleep <= 0 {
		c.Worker.Sleep = calculator.DefaultSleep
	}

	if c.Worker.RetryDelay <= 0 {
		c.Worker.RetryDelay = calculator.DefaultRetryDelay
	}

	if c.Supervisor.StartupDelay < 0 {
		c.Supervisor.StartupDelay = 0
	} else if c.Supervisor.StartupDelay == 0 {
		c.Supervisor.StartupDelay = supervisor.DefaultStartupDelay
	}

	if c.Supervisor.PollInterval <= 0 {
		c.Supervisor.PollInterval = supervisor.DefaultPollInterval
	}

	if c.Status.Persistence == "" {
		c.Status.Persistence = "memory"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}

	if len(c.Assets) == 0 {
		return errors.New("at least one asset is required")
	}

	for _, interval := range c.Timeframes {
		// workers of unknown timeframes never compute anything, they only drain
		if !interval.IsSupported() {
			log.Warnf("timeframe %q is not supported, its workers will stay idle", interval)
		}
	}

	if err := c.Indicators.Validate(); err != nil {
		return err
	}

	switch c.Status.Persistence {
	case "memory":
	case "json":
		if c.Persistence.Json == nil {
			return errors.New("status persistence json requires persistence.json")
		}
	case "redis":
		if c.Persistence.Redis == nil {
			return errors.New("status persistence redis requires persistence.redis")
		}
	default:
		return fmt.Errorf("unsupported status persistence %q", c.Status.Persistence)
	}

	return nil
}

// Pairs returns every asset and timeframe combination.
func (c *Config) Pairs() []types.Pair {
	return types.Pairs(c.Assets, c.Timeframes)
}

// WorkerOptions maps the config onto the options of a pair worker.
func (c *Config) WorkerOptions() calculator.Options {
	return calculator.Options{
		AmountOfData: c.AmountOfData,
		Sleep:        c.Worker.Sleep,
		RetryDelay:   c.Worker.RetryDelay,
		Indicators:   c.Indicators,
	}
}
