package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Storage backend names accepted by the configuration.
const (
	BackendBolt  = "bolt"
	BackendRedis = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"BSHOP_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BSHOP_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BSHOP_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BSHOP_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BSHOP_LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" envconfig:"BSHOP_LOG_FILE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BSHOP_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Storage            StorageConfig `yaml:"storage"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Redis              RedisConfig   `yaml:"redis"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BSHOP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BSHOP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BSHOP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BSHOP_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BSHOP_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BSHOP_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects which backend holds the book records. The bolt
// backend is the default, the redis backend additionally mirrors every
// mutation into the bolt file through the queue consumer.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"BSHOP_STORAGE_BACKEND"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSHOP_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSHOP_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSHOP_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSHOP_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSHOP_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSHOP_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSHOP_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSHOP_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSHOP_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSHOP_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSHOP_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSHOP_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSHOP_REDIS_DATABASE_INDEX"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Storage.Backend) == 0 {
		config.Storage.Backend = BackendBolt
	}

	switch config.Storage.Backend {
	case BackendBolt:
	case BackendRedis:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage backend %q: must be %q or %q", config.Storage.Backend, BackendBolt, BackendRedis)
	}

	if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
		return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration when the optional env file exists.
	if _, err := os.Stat("./config.env"); err == nil {
		if err := godotenv.Load("./config.env"); err != nil {
			return config, fmt.Errorf("failed to set environment configurations: %s", err)
		}
	}

	// Use environment variables with prefix `BSHOP`.
	err = LoadConfigEnvs("BSHOP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
