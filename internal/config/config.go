package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type ReminderConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	DailyAt      string        `mapstructure:"daily_at"`
	WindowDays   int           `mapstructure:"window_days"`
	AutoStart    bool          `mapstructure:"auto_start"`
}

type EmailConfig struct {
	From               string `mapstructure:"from"`
	SMTPHost           string `mapstructure:"smtp_host"`
	SMTPPort           int    `mapstructure:"smtp_port"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	ConfirmURLTemplate string `mapstructure:"confirm_url_template"`
}

type Config struct {
	DatabaseURL    string         `mapstructure:"database_url"`
	ServerPort     string         `mapstructure:"server_port"`
	AllowedOrigins []string       `mapstructure:"allowed_origins"`
	Reminder       ReminderConfig `mapstructure:"reminder"`
	Email          EmailConfig    `mapstructure:"email"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if config.Reminder.PollInterval == 0 {
		config.Reminder.PollInterval = time.Hour
	}
	if config.Reminder.DailyAt == "" {
		config.Reminder.DailyAt = "10:00"
	}
	if config.Reminder.WindowDays == 0 {
		config.Reminder.WindowDays = 3
	}
	if config.Email.SMTPPort == 0 {
		config.Email.SMTPPort = 587
	}
	if config.Email.ConfirmURLTemplate == "" {
		config.Email.ConfirmURLTemplate = "http://localhost:8080/confirm/%s"
	}

	return &config
}
