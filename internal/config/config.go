package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"shelter-vax-bot/internal/domain/vaccines"
)

const (
	configPathEnv = "VAXBOT_CONFIG"

	shelterURLEnv   = "SHELTER_API_URL"
	shelterKeyEnv   = "SHELTER_API_KEY"
	slackWebhookEnv = "SLACK_WEBHOOK_URL"
	serverPortEnv   = "PORT"
	serverKeyEnv    = "VAXBOT_API_KEY"
	logLevelEnv     = "LOG_LEVEL"
	logFormatEnv    = "LOG_FORMAT"
	appNameEnv      = "APP_NAME"
)

// Duration envuelve time.Duration para aceptar "1h30m" en YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config agrupa toda la configuración del bot. Los umbrales de ventana y las
// reglas de familia viajan acá como datos, no como globals de paquete.
type Config struct {
	Shelter   ShelterConfig      `yaml:"shelter"`
	Slack     SlackConfig        `yaml:"slack"`
	Server    ServerConfig       `yaml:"server"`
	Windows   WindowsConfig      `yaml:"windows"`
	Families  []FamilyRuleConfig `yaml:"families"`
	Scheduler SchedulerConfig    `yaml:"scheduler"`
	Logging   LoggingConfig      `yaml:"logging"`
}

// ShelterConfig describe el API del refugio (feeds + lookup de animales).
type ShelterConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	APIKey       string        `yaml:"apiKey"`
	APIKeyHeader string        `yaml:"apiKeyHeader"`
	Timeout      Duration      `yaml:"timeout"`
	PageSize     int           `yaml:"pageSize"`
}

// SlackConfig es el webhook entrante donde se publica el reporte.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// ServerConfig aplica solo al modo serve.
type ServerConfig struct {
	Port   string `yaml:"port"`
	APIKey string `yaml:"apiKey"` // vacío = endpoints sin gate
}

// WindowsConfig son los anchos de ventana en días.
type WindowsConfig struct {
	AttentionDays float64 `yaml:"attentionDays"`
	UpcomingDays  float64 `yaml:"upcomingDays"`
}

// FamilyRuleConfig es una regla de clasificación por substring, en orden de
// prioridad tal como aparece en el archivo.
type FamilyRuleConfig struct {
	Family   string   `yaml:"family"`
	Keywords []string `yaml:"keywords"`
}

// SchedulerConfig define cada cuánto corre el pipeline en modo serve.
type SchedulerConfig struct {
	Every Duration `yaml:"every"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

// Load arma la config: defaults → archivo YAML (si VAXBOT_CONFIG apunta a
// uno) → overrides por env. Un archivo ilegible no es fatal: se loguea y se
// sigue con defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillZeroes()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(shelterURLEnv); v != "" {
		c.Shelter.BaseURL = v
	}
	if v := os.Getenv(shelterKeyEnv); v != "" {
		c.Shelter.APIKey = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Slack.WebhookURL = v
	}
	if v := os.Getenv(serverPortEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(serverKeyEnv); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(appNameEnv); v != "" {
		c.Logging.App = v
	}
}

// fillZeroes repone defaults donde el archivo dejó ceros.
func (c *Config) fillZeroes() {
	def := defaultConfig()
	if c.Windows.AttentionDays <= 0 {
		c.Windows.AttentionDays = def.Windows.AttentionDays
	}
	if c.Windows.UpcomingDays <= 0 {
		c.Windows.UpcomingDays = def.Windows.UpcomingDays
	}
	if c.Shelter.Timeout <= 0 {
		c.Shelter.Timeout = def.Shelter.Timeout
	}
	if c.Shelter.PageSize <= 0 {
		c.Shelter.PageSize = def.Shelter.PageSize
	}
	if c.Scheduler.Every <= 0 {
		c.Scheduler.Every = def.Scheduler.Every
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = def.Server.Port
	}
}

// WindowConfig proyecta los umbrales al tipo del dominio.
func (c Config) WindowConfig() vaccines.WindowConfig {
	return vaccines.WindowConfig{
		AttentionDays: c.Windows.AttentionDays,
		UpcomingDays:  c.Windows.UpcomingDays,
	}
}

// FamilyRules proyecta las reglas del archivo; sin reglas configuradas se
// usan las curadas del dominio.
func (c Config) FamilyRules() []vaccines.FamilyRule {
	if len(c.Families) == 0 {
		return vaccines.DefaultFamilyRules()
	}
	out := make([]vaccines.FamilyRule, 0, len(c.Families))
	for _, f := range c.Families {
		fam := vaccines.Family(strings.TrimSpace(f.Family))
		if fam == "" {
			continue
		}
		out = append(out, vaccines.FamilyRule{Family: fam, Keywords: f.Keywords})
	}
	return out
}

func defaultConfig() Config {
	return Config{
		Shelter: ShelterConfig{
			APIKeyHeader: "X-Api-Key",
			Timeout:      Duration(10 * time.Second),
			PageSize:     100,
		},
		Server: ServerConfig{Port: "8080"},
		Windows: WindowsConfig{
			AttentionDays: 14,
			UpcomingDays:  30,
		},
		Scheduler: SchedulerConfig{Every: Duration(24 * time.Hour)},
		Logging:   LoggingConfig{Level: "info", Format: "text", App: "shelter-vax-bot"},
	}
}
