package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lo-site/domain"
	"lo-site/service"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Tenants struct {
		RootDomain  string `yaml:"root_domain"`
		DefaultSlug string `yaml:"default_slug"`
	} `yaml:"tenants"`
	Profiles struct {
		BaseURL  string           `yaml:"base_url"`
		APIKey   string           `yaml:"api_key"`
		Timeout  time.Duration    `yaml:"timeout"`
		CacheTTL time.Duration    `yaml:"cache_ttl"`
		Static   []domain.Profile `yaml:"static"`
	} `yaml:"profiles"`
	Cache struct {
		Driver string `yaml:"driver"`
	} `yaml:"cache"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RateLimit struct {
		MaxRequests int           `yaml:"max_requests"`
		Window      time.Duration `yaml:"window"`
		Store       string        `yaml:"store"`
		Sweep       string        `yaml:"sweep"`
	} `yaml:"rate_limit"`
	Leads struct {
		ForwardURL     string        `yaml:"forward_url"`
		APIKey         string        `yaml:"api_key"`
		AlwaysAck      *bool         `yaml:"always_ack"`
		ForwardTimeout time.Duration `yaml:"forward_timeout"`
	} `yaml:"leads"`
	Calculator struct {
		FHAUpfrontMIPRate    float64 `yaml:"fha_upfront_mip_rate"`
		FHAAnnualMIPRate     float64 `yaml:"fha_annual_mip_rate"`
		USDAGuaranteeFeeRate float64 `yaml:"usda_guarantee_fee_rate"`
		USDAAnnualFeeRate    float64 `yaml:"usda_annual_fee_rate"`
		PMIWaiverLTV         float64 `yaml:"pmi_waiver_ltv"`
	} `yaml:"calculator"`
	Headlines struct {
		GeminiAPIKey string `yaml:"gemini_api_key"`
		Model        string `yaml:"model"`
	} `yaml:"headlines"`
}

// Load reads config from a YAML file, loads any .env files, then applies
// environment variable overrides and defaults. A missing file is not an
// error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ROOT_DOMAIN"); v != "" {
		c.Tenants.RootDomain = v
	}
	if v := os.Getenv("DEFAULT_TENANT"); v != "" {
		c.Tenants.DefaultSlug = v
	}
	if v := os.Getenv("PROFILE_API_URL"); v != "" {
		c.Profiles.BaseURL = v
	}
	if v := os.Getenv("PROFILE_API_KEY"); v != "" {
		c.Profiles.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CRM_LEADS_URL"); v != "" {
		c.Leads.ForwardURL = v
	}
	if v := os.Getenv("CRM_API_KEY"); v != "" {
		c.Leads.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Headlines.GeminiAPIKey = v
	}
	if v := os.Getenv("LEADS_ALWAYS_ACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEADS_ALWAYS_ACK: %w", err)
		}
		c.Leads.AlwaysAck = &b
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
		}
		c.RateLimit.MaxRequests = n
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
		}
		c.RateLimit.Window = d
	}
	if v := os.Getenv("RATE_LIMIT_STORE"); v != "" {
		c.RateLimit.Store = v
	}
	if v := os.Getenv("FHA_ANNUAL_MIP_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid FHA_ANNUAL_MIP_RATE: %w", err)
		}
		c.Calculator.FHAAnnualMIPRate = f
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Tenants.DefaultSlug == "" {
		c.Tenants.DefaultSlug = "demo"
	}
	if c.Profiles.Timeout == 0 {
		c.Profiles.Timeout = 5 * time.Second
	}
	if c.Profiles.CacheTTL == 0 {
		c.Profiles.CacheTTL = 5 * time.Minute
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = DriverMemory
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 5
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = DriverMemory
	}
	if c.RateLimit.Sweep == "" {
		c.RateLimit.Sweep = "@every 30m"
	}
	if c.Leads.AlwaysAck == nil {
		ack := true
		c.Leads.AlwaysAck = &ack
	}
	if c.Leads.ForwardTimeout == 0 {
		c.Leads.ForwardTimeout = 10 * time.Second
	}
	if c.Calculator.FHAUpfrontMIPRate == 0 {
		c.Calculator.FHAUpfrontMIPRate = service.DefaultFHAUpfrontMIPRate
	}
	if c.Calculator.USDAGuaranteeFeeRate == 0 {
		c.Calculator.USDAGuaranteeFeeRate = service.DefaultUSDAGuaranteeFee
	}
	if c.Calculator.USDAAnnualFeeRate == 0 {
		c.Calculator.USDAAnnualFeeRate = service.DefaultUSDAAnnualFeeRate
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Calculator.FHAAnnualMIPRate <= 0 {
		return fmt.Errorf("calculator.fha_annual_mip_rate is required")
	}
	if c.Calculator.PMIWaiverLTV < 0 || c.Calculator.PMIWaiverLTV > 100 {
		return fmt.Errorf("calculator.pmi_waiver_ltv must be between 0 and 100")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate_limit.max_requests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	if !validDriver(c.RateLimit.Store) {
		return fmt.Errorf("rate_limit.store must be %q or %q", DriverMemory, DriverRedis)
	}
	if !validDriver(c.Cache.Driver) {
		return fmt.Errorf("cache.driver must be %q or %q", DriverMemory, DriverRedis)
	}
	if c.UsesRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when a redis driver is selected")
	}
	if c.Profiles.BaseURL == "" && len(c.Profiles.Static) == 0 {
		return fmt.Errorf("profiles.base_url or profiles.static is required")
	}
	return nil
}

func (c *Config) UsesRedis() bool {
	return c.RateLimit.Store == DriverRedis || c.Cache.Driver == DriverRedis
}

func (c *Config) ProgramDefaults() service.ProgramDefaults {
	return service.ProgramDefaults{
		FHAUpfrontMIPRate:    c.Calculator.FHAUpfrontMIPRate,
		FHAAnnualMIPRate:     c.Calculator.FHAAnnualMIPRate,
		USDAGuaranteeFeeRate: c.Calculator.USDAGuaranteeFeeRate,
		USDAAnnualFeeRate:    c.Calculator.USDAAnnualFeeRate,
		PMIWaiverLTV:         c.Calculator.PMIWaiverLTV,
	}
}

func (c *Config) LeadOptions() service.LeadOptions {
	return service.LeadOptions{
		AlwaysAck:      c.Leads.AlwaysAck == nil || *c.Leads.AlwaysAck,
		ForwardTimeout: c.Leads.ForwardTimeout,
	}
}

func validDriver(d string) bool {
	return d == DriverMemory || d == DriverRedis
}
