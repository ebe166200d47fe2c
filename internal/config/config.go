// Package config loads the agent's YAML configuration document and
// applies environment variable overrides, the same two-stage shape as
// the teacher's api_gateway/src/config package.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/errs"
	"iaros/kitlogistics/internal/kit"
)

// Config is the root configuration document.
type Config struct {
	Environment string          `yaml:"environment"`
	Monitoring  MonitoringCfg   `yaml:"monitoring"`
	Evaluation  EvaluationCfg   `yaml:"evaluation"`
	Catalog     CatalogCfg      `yaml:"catalog"`
	Optimizer   OptimizerCfg    `yaml:"optimizer"`
	Orchestrator OrchestratorCfg `yaml:"orchestrator"`
	Persistence PersistenceCfg  `yaml:"persistence"`
	Cache       CacheCfg        `yaml:"cache"`
	Logging     LoggingCfg      `yaml:"logging"`
}

type MonitoringCfg struct {
	Port      int `yaml:"port"`
	DebugPort int `yaml:"debug_port"`
}

type EvaluationCfg struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
	BackoffFactor  float64       `yaml:"backoff_factor"`
	BackoffJitter  float64       `yaml:"backoff_jitter"`
	MaxPerOrder    int           `yaml:"max_per_order"` // per-class hard API bound, §6.1 (42000)
}

type CatalogCfg struct {
	AirportsCSV   string        `yaml:"airports_csv"`
	AircraftCSV   string        `yaml:"aircraft_csv"`
	FlightPlanCSV string        `yaml:"flight_plan_csv"`
	// KitClasses is the per-class kit economics (cost, weight, purchase
	// lead time). spec.md §6.2 names only three CSV tables — airports,
	// aircraft_types, flight_plan — so kit-class metadata has no file of
	// its own and lives here instead, in class order FIRST..ECONOMY.
	KitClasses [kit.NumClasses]KitClassCfg `yaml:"kit_classes"`
}

// KitClassCfg is one row of CatalogCfg.KitClasses, named rather than
// positional in the YAML document for readability.
type KitClassCfg struct {
	Class         string  `yaml:"class"`
	Cost          float64 `yaml:"cost"`
	WeightKG      float64 `yaml:"weight_kg"`
	LeadTimeHours int     `yaml:"lead_time_hours"`
}

type OptimizerCfg struct {
	Strategy           string        `yaml:"strategy"` // "genetic" (only supported path, see DESIGN.md)
	RoundDeadline       time.Duration `yaml:"round_deadline"`
	PopulationSize      int           `yaml:"population_size"`
	NoImprovementLimit  int           `yaml:"no_improvement_limit"`
	MutationRate        float64       `yaml:"mutation_rate"`
	Seed                int64         `yaml:"seed"`
	LoadHorizonHours    int           `yaml:"load_horizon_hours"`    // Hload, default 6
	PurchaseHorizonHours int          `yaml:"purchase_horizon_hours"` // Hpurchase, default 72
}

// OrchestratorCfg controls C8's round loop, distinct from the
// optimizer's own internal deadline: RoundBudget bounds the whole
// ingest→horizon→optimize→validate→submit tick, while
// Optimizer.RoundDeadline bounds only the search inside it (spec.md §5:
// "the orchestrator enforces a total-round budget (default 5s)").
type OrchestratorCfg struct {
	RoundBudget time.Duration `yaml:"round_budget"`
}

type PersistenceCfg struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type CacheCfg struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

type LoggingCfg struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration populated with the defaults named
// throughout spec.md (round budget 5s, optimizer deadline 2s, Hload 6h,
// Hpurchase 72h, API per-class max 42000).
func Default() Config {
	return Config{
		Environment: "development",
		Monitoring:  MonitoringCfg{Port: 8090, DebugPort: 8091},
		Evaluation: EvaluationCfg{
			RequestTimeout: 10 * time.Second,
			MaxRetries:     3,
			BackoffBase:    100 * time.Millisecond,
			BackoffFactor:  2.0,
			BackoffJitter:  0.2,
			MaxPerOrder:    42000,
		},
		Catalog: CatalogCfg{
			AirportsCSV:   "data/airports.csv",
			AircraftCSV:   "data/aircraft_types.csv",
			FlightPlanCSV: "data/flight_plan.csv",
			KitClasses: [kit.NumClasses]KitClassCfg{
				kit.First:          {Class: "FIRST", Cost: 500, WeightKG: 4, LeadTimeHours: 48},
				kit.Business:       {Class: "BUSINESS", Cost: 300, WeightKG: 3, LeadTimeHours: 24},
				kit.PremiumEconomy: {Class: "PREMIUM_ECONOMY", Cost: 150, WeightKG: 2, LeadTimeHours: 12},
				kit.Economy:        {Class: "ECONOMY", Cost: 50, WeightKG: 1, LeadTimeHours: 6},
			},
		},
		Optimizer: OptimizerCfg{
			Strategy:             "genetic",
			RoundDeadline:        2 * time.Second,
			PopulationSize:       24,
			NoImprovementLimit:   12,
			MutationRate:         0.15,
			Seed:                 1,
			LoadHorizonHours:     6,
			PurchaseHorizonHours: 72,
		},
		Orchestrator: OrchestratorCfg{RoundBudget: 5 * time.Second},
		Logging:      LoggingCfg{Level: "info", Format: "json"},
	}
}

// Load reads a YAML document at path (if it exists) on top of Default,
// then applies KITLOG_-prefixed environment overrides for the handful
// of secrets/operational knobs that should not live in a checked-in file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return applyEnvOverrides(cfg), nil
			}
			return Config{}, errs.Config("config.Load", "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errs.Config("config.Load", "failed to parse config YAML", err)
		}
	}

	cfg = applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv("KITLOG_API_KEY"); v != "" {
		cfg.Evaluation.APIKey = v
	}
	if v := os.Getenv("KITLOG_BASE_URL"); v != "" {
		cfg.Evaluation.BaseURL = v
	}
	if v := os.Getenv("KITLOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("KITLOG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("KITLOG_MONITOR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitoring.Port = n
		}
	}
	if v := os.Getenv("KITLOG_PERSISTENCE_DSN"); v != "" {
		cfg.Persistence.DSN = v
		cfg.Persistence.Enabled = true
	}
	if v := os.Getenv("KITLOG_CACHE_URL"); v != "" {
		cfg.Cache.URL = v
		cfg.Cache.Enabled = true
	}
	return cfg
}

// KitMeta converts the configured per-class rows into the array shape
// catalog.LoadFromConfig expects, indexed by kit.Class.
func (c CatalogCfg) KitMeta() ([kit.NumClasses]catalog.KitClassMeta, error) {
	var meta [kit.NumClasses]catalog.KitClassMeta
	for _, class := range kit.AllClasses() {
		row := c.KitClasses[class]
		if row.Cost <= 0 || row.WeightKG <= 0 || row.LeadTimeHours <= 0 {
			return meta, errs.Config("config.CatalogCfg.KitMeta",
				fmt.Sprintf("catalog.kit_classes[%s] must have positive cost, weight_kg and lead_time_hours", class), nil)
		}
		meta[class] = catalog.KitClassMeta{Class: class, Cost: row.Cost, WeightKG: row.WeightKG, LeadTimeHours: row.LeadTimeHours}
	}
	return meta, nil
}

func (c Config) validate() error {
	if c.Evaluation.APIKey == "" {
		return errs.Config("config.validate", "evaluation.api_key (or KITLOG_API_KEY) must be set", nil)
	}
	if c.Evaluation.BaseURL == "" {
		return errs.Config("config.validate", "evaluation.base_url (or KITLOG_BASE_URL) must be set", nil)
	}
	if c.Optimizer.RoundDeadline <= 0 {
		return errs.Config("config.validate", "optimizer.round_deadline must be positive", nil)
	}
	if c.Optimizer.LoadHorizonHours <= 0 || c.Optimizer.PurchaseHorizonHours <= 0 {
		return errs.Config("config.validate", "optimizer horizons must be positive", nil)
	}
	if c.Optimizer.PurchaseHorizonHours < c.Optimizer.LoadHorizonHours {
		return errs.Config("config.validate", fmt.Sprintf("purchase_horizon_hours (%d) must be >= load_horizon_hours (%d)",
			c.Optimizer.PurchaseHorizonHours, c.Optimizer.LoadHorizonHours), nil)
	}
	if c.Orchestrator.RoundBudget <= 0 {
		return errs.Config("config.validate", "orchestrator.round_budget must be positive", nil)
	}
	if c.Optimizer.RoundDeadline >= c.Orchestrator.RoundBudget {
		return errs.Config("config.validate", fmt.Sprintf(
			"optimizer.round_deadline (%s) must be less than orchestrator.round_budget (%s)",
			c.Optimizer.RoundDeadline, c.Orchestrator.RoundBudget), nil)
	}
	return nil
}
