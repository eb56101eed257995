// Package config provides configuration management for the wxpay client.
// Configuration can be loaded from YAML files and overridden by environment variables,
// or filled in directly by the calling application.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
	"time"
	"wxpay/entity"
)

// Config holds all configuration for a payment client.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug    bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	LogRecords int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Merchant   struct {
		AppId    string `yaml:"app_id" env:"MERCHANT_APP_ID" env-default:""`
		MchId    string `yaml:"mch_id" env:"MERCHANT_MCH_ID" env-default:""`
		Key      string `yaml:"key" env:"MERCHANT_KEY" env-default:""`
		SignType string `yaml:"sign_type" env:"MERCHANT_SIGN_TYPE" env-default:"MD5"`
		// CertFile and KeyFile hold the merchant client certificate, only needed
		// for endpoints that require mutual TLS.
		CertFile string `yaml:"cert_file" env:"MERCHANT_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"MERCHANT_KEY_FILE" env-default:""`
	} `yaml:"merchant"`
	Gateway struct {
		BaseUrl string `yaml:"base_url" env:"GATEWAY_BASE_URL" env-default:"https://api.mch.weixin.qq.com"`
		// CaFile replaces the system roots used to verify the gateway.
		CaFile string `yaml:"ca_file" env:"GATEWAY_CA_FILE" env-default:""`
	} `yaml:"gateway"`
	Http struct {
		Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
		// SuppressErrors returns transport failures as failed responses
		// instead of errors.
		SuppressErrors bool `yaml:"suppress_errors" env:"HTTP_SUPPRESS_ERRORS" env-default:"false"`
	} `yaml:"http"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"false"`
	} `yaml:"metrics"`
}

var instance *Config
var loadErr error
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once;
// a failed load keeps returning its error.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	once.Do(func() {
		instance, loadErr = ReadConfig(path)
	})
	return instance, loadErr
}

// ReadConfig loads a fresh Config from path without touching the singleton.
func ReadConfig(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Default returns a Config with every env-default applied and no merchant
// credentials, for applications that fill the struct in code.
func Default() *Config {
	conf := &Config{}
	conf.Merchant.SignType = "MD5"
	conf.Gateway.BaseUrl = "https://api.mch.weixin.qq.com"
	conf.Http.Timeout = 30 * time.Second
	conf.Mongo.Host = "127.0.0.1"
	conf.Mongo.Port = "27017"
	return conf
}

// Validate checks that the merchant credentials needed by every request are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Merchant.AppId == "" {
		missing = append(missing, "app_id")
	}
	if c.Merchant.MchId == "" {
		missing = append(missing, "mch_id")
	}
	if c.Merchant.Key == "" {
		missing = append(missing, "key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("merchant not configured: missing %v", missing)
	}
	if _, err := entity.ParseSignType(c.Merchant.SignType); err != nil {
		return err
	}
	if (c.Merchant.CertFile == "") != (c.Merchant.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	return nil
}
