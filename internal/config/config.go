package config

import (
	"fmt"
	"os"
	"time"

	"battery_advisor/internal/models"

	"github.com/spf13/viper"
)

// Config is the single explicit configuration structure for the process.
// Loaded once at startup, validated, and passed into component constructors.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	Location  Location
	Battery   Battery
	Rules     Rules
	Safety    Safety
	Savings   Savings
	LLM       LLM
	Providers Providers
	Auth      Auth
}

// Location is the default site used when a request omits lat/lon.
type Location struct {
	Lat float64
	Lon float64
}

// Battery holds the absolute BMS limits; the strategic band is derived.
type Battery struct {
	BMSMinSoC float64
	BMSMaxSoC float64
}

// Rules are the thresholds of the deterministic rule evaluator.
type Rules struct {
	LowPriceEURPerKWH  float64
	HighPriceEURPerKWH float64
	SolarThresholdWM2  float64
	CheapestHours      int
}

// Safety is the non-bypassable final gate configuration.
type Safety struct {
	PriceCeilingEURPerKWH float64
}

// Savings parameterizes the auxiliary savings estimate in responses.
type Savings struct {
	ReferencePriceEURPerKWH float64
}

// LLM configures the generative-model fallback client.
type LLM struct {
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Providers configures the forecast upstreams.
type Providers struct {
	AwattarURL   string
	OpenMeteoURL string
	Timeout      time.Duration
	SolarHours   int
}

// Auth configures token issuance.
type Auth struct {
	SigningKey string
	TokenTTL   time.Duration
}

const (
	defaultPort          = "8080"
	defaultDBPath        = "advisor.db"
	defaultLLMModel      = "gemini-1.5-flash"
	defaultLLMBaseURL    = "https://generativelanguage.googleapis.com"
	defaultLLMTimeout    = 2500 * time.Millisecond
	defaultAwattarURL    = "https://api.awattar.de/v1/marketdata"
	defaultOpenMeteoURL  = "https://api.open-meteo.com/v1/forecast"
	defaultProviderTO    = 5 * time.Second
	defaultSolarHours    = 6
	defaultTokenTTL      = time.Hour
	defaultBMSMinSoC     = 5.0
	defaultBMSMaxSoC     = 99.0
	defaultLowPrice      = 0.15
	defaultHighPrice     = 0.28
	defaultSolarWM2      = 300.0
	defaultCheapestHours = 3
	defaultPriceCeiling  = 0.25
	defaultRefPrice      = 0.32
)

// Load reads configs/config.yml via viper, applies defaults and env
// overrides for secrets, and validates the result.
func Load() (Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return fromViper()
}

func fromViper() (Config, error) {
	setDefaults()

	cfg := Config{
		Port:     viper.GetString("port"),
		LogLevel: viper.GetString("log_level"),
		DBPath:   viper.GetString("db.path"),
		Location: Location{
			Lat: viper.GetFloat64("location.lat"),
			Lon: viper.GetFloat64("location.lon"),
		},
		Battery: Battery{
			BMSMinSoC: viper.GetFloat64("battery.bms_min_soc"),
			BMSMaxSoC: viper.GetFloat64("battery.bms_max_soc"),
		},
		Rules: Rules{
			LowPriceEURPerKWH:  viper.GetFloat64("rules.low_price_eur_kwh"),
			HighPriceEURPerKWH: viper.GetFloat64("rules.high_price_eur_kwh"),
			SolarThresholdWM2:  viper.GetFloat64("rules.solar_threshold_wm2"),
			CheapestHours:      viper.GetInt("rules.cheapest_hours"),
		},
		Safety: Safety{
			PriceCeilingEURPerKWH: viper.GetFloat64("safety.price_ceiling_eur_kwh"),
		},
		Savings: Savings{
			ReferencePriceEURPerKWH: viper.GetFloat64("savings.reference_price_eur_kwh"),
		},
		LLM: LLM{
			Model:   viper.GetString("llm.model"),
			BaseURL: viper.GetString("llm.base_url"),
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Timeout: viper.GetDuration("llm.timeout"),
		},
		Providers: Providers{
			AwattarURL:   viper.GetString("providers.awattar_url"),
			OpenMeteoURL: viper.GetString("providers.openmeteo_url"),
			Timeout:      viper.GetDuration("providers.timeout"),
			SolarHours:   viper.GetInt("providers.solar_hours"),
		},
		Auth: Auth{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
	}
	if key := os.Getenv("AUTH_SIGNING_KEY"); key != "" {
		cfg.Auth.SigningKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("port", defaultPort)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("db.path", defaultDBPath)
	viper.SetDefault("battery.bms_min_soc", defaultBMSMinSoC)
	viper.SetDefault("battery.bms_max_soc", defaultBMSMaxSoC)
	viper.SetDefault("rules.low_price_eur_kwh", defaultLowPrice)
	viper.SetDefault("rules.high_price_eur_kwh", defaultHighPrice)
	viper.SetDefault("rules.solar_threshold_wm2", defaultSolarWM2)
	viper.SetDefault("rules.cheapest_hours", defaultCheapestHours)
	viper.SetDefault("safety.price_ceiling_eur_kwh", defaultPriceCeiling)
	viper.SetDefault("savings.reference_price_eur_kwh", defaultRefPrice)
	viper.SetDefault("llm.model", defaultLLMModel)
	viper.SetDefault("llm.base_url", defaultLLMBaseURL)
	viper.SetDefault("llm.timeout", defaultLLMTimeout)
	viper.SetDefault("providers.awattar_url", defaultAwattarURL)
	viper.SetDefault("providers.openmeteo_url", defaultOpenMeteoURL)
	viper.SetDefault("providers.timeout", defaultProviderTO)
	viper.SetDefault("providers.solar_hours", defaultSolarHours)
	viper.SetDefault("auth.token_ttl", defaultTokenTTL)
}

// Bounds derives the operating bounds from the configured BMS limits.
func (c Config) Bounds() models.OperatingBounds {
	return models.DeriveBounds(c.Battery.BMSMinSoC, c.Battery.BMSMaxSoC)
}

// Validate fails fast on an inconsistent configuration.
func (c Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return err
	}
	if c.Rules.LowPriceEURPerKWH <= 0 || c.Rules.HighPriceEURPerKWH <= 0 {
		return fmt.Errorf("price thresholds must be > 0, got low=%.3f high=%.3f",
			c.Rules.LowPriceEURPerKWH, c.Rules.HighPriceEURPerKWH)
	}
	if c.Rules.LowPriceEURPerKWH >= c.Rules.HighPriceEURPerKWH {
		return fmt.Errorf("low price threshold %.3f must be below high threshold %.3f",
			c.Rules.LowPriceEURPerKWH, c.Rules.HighPriceEURPerKWH)
	}
	if c.Rules.SolarThresholdWM2 <= 0 {
		return fmt.Errorf("solar threshold must be > 0, got %.1f", c.Rules.SolarThresholdWM2)
	}
	if c.Rules.CheapestHours < 1 {
		return fmt.Errorf("cheapest_hours must be >= 1, got %d", c.Rules.CheapestHours)
	}
	if c.Safety.PriceCeilingEURPerKWH <= 0 {
		return fmt.Errorf("safety price ceiling must be > 0, got %.3f", c.Safety.PriceCeilingEURPerKWH)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be > 0, got %s", c.LLM.Timeout)
	}
	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be > 0, got %s", c.Providers.Timeout)
	}
	if c.Providers.SolarHours < 1 || c.Providers.SolarHours > 24 {
		return fmt.Errorf("solar_hours must be in [1,24], got %d", c.Providers.SolarHours)
	}
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("auth signing key is required (auth.signing_key or AUTH_SIGNING_KEY)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be > 0, got %s", c.Auth.TokenTTL)
	}
	return nil
}
