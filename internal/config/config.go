package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tariffwatch/internal/pricing"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		BaseURL        string `yaml:"base_url"`
		Token          string `yaml:"token"`
		EntityID       string `yaml:"entity_id"`
		File           string `yaml:"file"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"source"`
	Publish struct {
		Enabled           bool   `yaml:"enabled"`
		ConsumptionEntity string `yaml:"consumption_entity"`
		InjectionEntity   string `yaml:"injection_entity"`
	} `yaml:"publish"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Costs   CostsConfig `yaml:"costs"`
	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// CostsConfig mirrors pricing.CostParameters with optional fields so each
// parameter defaults independently when left unset.
type CostsConfig struct {
	ConsumptionMultiplier *float64 `yaml:"consumption_multiplier"`
	SupplierCost          *float64 `yaml:"supplier_cost"`
	InjectionMultiplier   *float64 `yaml:"injection_multiplier"`
	InjectionDeduction    *float64 `yaml:"injection_deduction"`
	GreenCertificates     *float64 `yaml:"green_certificates"`
	CHPCertificates       *float64 `yaml:"chp_certificates"`
	DistributionCost      *float64 `yaml:"distribution_cost"`
	EnergyContribution    *float64 `yaml:"energy_contribution"`
	ExciseTax             *float64 `yaml:"excise_tax"`
	VATRate               *float64 `yaml:"vat_rate"`
}

// CostParameters resolves the costs section against the documented
// defaults, field by field.
func (c CostsConfig) CostParameters() pricing.CostParameters {
	params := pricing.DefaultCostParameters()
	override := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	override(&params.ConsumptionMultiplier, c.ConsumptionMultiplier)
	override(&params.SupplierCost, c.SupplierCost)
	override(&params.InjectionMultiplier, c.InjectionMultiplier)
	override(&params.InjectionDeduction, c.InjectionDeduction)
	override(&params.GreenCertificates, c.GreenCertificates)
	override(&params.CHPCertificates, c.CHPCertificates)
	override(&params.DistributionCost, c.DistributionCost)
	override(&params.EnergyContribution, c.EnergyContribution)
	override(&params.ExciseTax, c.ExciseTax)
	override(&params.VATRate, c.VATRate)
	return params
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("HASS_BASE_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("HASS_TOKEN"); v != "" {
		cfg.Source.Token = v
	}
	if v := os.Getenv("SOURCE_ENTITY_ID"); v != "" {
		cfg.Source.EntityID = v
	}
	if v := os.Getenv("SOURCE_FILE"); v != "" {
		cfg.Source.File = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 30
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.Publish.ConsumptionEntity == "" {
		cfg.Publish.ConsumptionEntity = "sensor.dynamic_consumption_price"
	}
	if cfg.Publish.InjectionEntity == "" {
		cfg.Publish.InjectionEntity = "sensor.dynamic_injection_price"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 50
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 30
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Source.File == "" {
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required when source.file is not set")
		}
		if c.Source.Token == "" {
			return fmt.Errorf("source.token is required when source.file is not set")
		}
		if c.Source.EntityID == "" {
			return fmt.Errorf("source.entity_id is required when source.file is not set")
		}
	}
	if c.Publish.Enabled {
		if c.Source.BaseURL == "" || c.Source.Token == "" {
			return fmt.Errorf("publish.enabled requires source.base_url and source.token")
		}
	}
	if vat := c.Costs.VATRate; vat != nil && (*vat < 0 || *vat > 100) {
		return fmt.Errorf("costs.vat_rate must be between 0 and 100")
	}
	return nil
}
