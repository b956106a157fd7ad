package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/campuslib/circulation-service/circulation/internal/policy"
	"github.com/campuslib/circulation-service/pkg/kafka"
	"github.com/campuslib/circulation-service/pkg/logger"
	"github.com/campuslib/circulation-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"CIRCULATION_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"CIRCULATION_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration
}

type Config struct {
	Server   HTTPServer      `yaml:"server"`
	Database postgres.Config `yaml:"db"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Policy   policy.Settings `yaml:"policy"`
	Log      logger.Log      `yaml:"log"`

	// SweepInterval paces the reservation expiry sweeper.
	SweepInterval time.Duration `yaml:"sweepInterval" envconfig:"SWEEP_INTERVAL" default:"1m"`
}

type Option func(*Config)

func WithPolicy(p policy.Settings) Option {
	return func(c *Config) {
		c.Policy = p
	}
}

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config := Config{Policy: policy.Default()}
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
