package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Conf is the application configuration, loaded once at startup.
var Conf = NewTestConfig() // replaced by LoadConf in the apps; tests need no setup step

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	Build    string
	WorkDir  string

	FromName       string
	FromEmail      string
	SendgridApiKey string
	RollbarToken   string

	Server struct {
		Host string
	}

	Database struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	Membership struct {
		// AllowPastStart permits assigning a plan whose computed window has
		// already ended. The front desk uses this to back-fill paper records.
		AllowPastStart bool
	}

	Alert struct {
		// ThresholdPercent is the elapsed-time percentage at which a member
		// enters the renewal-reminder window.
		ThresholdPercent int
		// ReminderTemplate supports the {name} and {daysRemaining} placeholders.
		ReminderTemplate string
		Subject          string
		// SendsPerMinute paces batch reminder deliveries.
		SendsPerMinute int
	}
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.FromName, Address: c.FromEmail}
}

func (c *Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

// LoadConf populates Conf from defaults, an optional config/.env.<env> file
// and ENV-prefixed environment variables.
func LoadConf() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("env", "DEV")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "TauroGym")
	v.SetDefault("build", "dev")
	v.SetDefault("fromName", "TauroGym")
	v.SetDefault("fromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "taurogym")
	v.SetDefault("database.user", "taurogym")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("membership.allowPastStart", true)
	v.SetDefault("alert.thresholdPercent", 90)
	v.SetDefault("alert.reminderTemplate",
		"Hola {name}! Tu membresía vence en {daysRemaining} días. Acércate a recepción para renovarla.")
	v.SetDefault("alert.subject", "Renovación de membresía")
	v.SetDefault("alert.sendsPerMinute", 30)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.Set("env", env)
	if env == "TEST" {
		v.Set("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "config.os.Getwd")
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "config.viper.Unmarshal")
	}
	conf.WorkDir = wd

	Conf = conf
	return conf, nil
}

// NewTestConfig returns a Config with the documented defaults, for tests.
func NewTestConfig() *Config {
	conf := new(Config)
	conf.Env = "TEST"
	conf.TestMode = true
	conf.AppName = "TauroGym"
	conf.FromName = "TauroGym"
	conf.FromEmail = "noreply@localhost"
	conf.Membership.AllowPastStart = true
	conf.Alert.ThresholdPercent = 90
	conf.Alert.ReminderTemplate = "Hola {name}! Tu membresía vence en {daysRemaining} días. Acércate a recepción para renovarla."
	conf.Alert.Subject = "Renovación de membresía"
	conf.Alert.SendsPerMinute = 600
	return conf
}
