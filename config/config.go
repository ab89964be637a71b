package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ListSourceRemote = "remote"
	ListSourceMirror = "mirror"
)

type Config struct {
	// Debug forces the debug log level
	Debug       bool   `envconfig:"debug"`
	Port        int    `envconfig:"port" default:"3000"`
	Env         string `envconfig:"env" default:"dev"`
	LogLevel    string `envconfig:"log_level" default:"info"`
	DatabaseURL string `envconfig:"database_url" required:"true"`
	RedisURL    string `envconfig:"redis_url"`

	JWTSecret     string        `envconfig:"jwt_secret" required:"true"`
	SessionTTL    time.Duration `envconfig:"session_ttl" default:"24h"`
	AuthRateLimit uint          `envconfig:"auth_rate_limit" default:"10"`

	TwilioAccountSID              string `envconfig:"twilio_account_sid" required:"true"`
	TwilioAuthToken               string `envconfig:"twilio_auth_token" required:"true"`
	TwilioAPIKey                  string `envconfig:"twilio_api_key" required:"true"`
	TwilioAPISecret               string `envconfig:"twilio_api_secret" required:"true"`
	TwilioConversationsServiceSID string `envconfig:"twilio_conversations_service_sid" required:"true"`
	ProviderTokenTTL              time.Duration `envconfig:"provider_token_ttl" default:"1h"`

	// remote or mirror
	ConversationListSource string `envconfig:"conversation_list_source" default:"remote"`
	// cap on conversations read from the provider per listing
	ConversationListLimit  int    `envconfig:"conversation_list_limit" default:"200"`

	MailgunApiKey string `envconfig:"mg_public_api_key"`
	MgDomain      string `envconfig:"mg_domain"`
	MgEmailFrom   string `envconfig:"email_from"`

	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	if c.Debug {
		c.LogLevel = "debug"
	}
	if c.ConversationListSource != ListSourceMirror {
		c.ConversationListSource = ListSourceRemote
	}
	return c, nil
}

// MailEnabled reports whether enough mailgun settings are present to send mail.
func (c *Config) MailEnabled() bool {
	return c.MailgunApiKey != "" && c.MgDomain != "" && c.MgEmailFrom != ""
}
