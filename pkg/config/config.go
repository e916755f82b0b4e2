package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Slack    SlackConfig
	Calendar CalendarConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Email    EmailConfig
	Visitor  VisitorConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SlackConfig struct {
	BotToken      string
	SigningSecret string
	// Per-call deadline for Slack Web API requests.
	CallTimeout time.Duration
}

type CalendarConfig struct {
	CalendarID         string
	ServiceAccountFile string
	ImpersonateSubject string
	CallTimeout        time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type NATSConfig struct {
	URL string
}

type EmailConfig struct {
	MailerSendKey string
	FromName      string
	FromEmail     string
	// When true, the admin notification is also sent by email.
	AdminCopy bool
}

type VisitorConfig struct {
	// Office label used in event summaries and DM texts.
	OfficeName string
	// The fixed coordinator invited to every visit and DMed on each
	// registration, resolved by email lookup.
	AdminEmail string
	// IANA zone all visit times are anchored in.
	Timezone string
	// Slash-command invocations allowed per user per window.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Slack: SlackConfig{
			BotToken:      getEnv("SLACK_BOT_TOKEN", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
			CallTimeout:   getDuration("SLACK_CALL_TIMEOUT", 10*time.Second),
		},
		Calendar: CalendarConfig{
			CalendarID:         getEnv("VISITOR_CALENDAR_ID", ""),
			ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "service-account.json"),
			ImpersonateSubject: getEnv("GOOGLE_IMPERSONATE_SUBJECT", ""),
			CallTimeout:        getDuration("CALENDAR_CALL_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Email: EmailConfig{
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			FromName:      getEnv("MAIL_FROM_NAME", "Visitor Bot"),
			FromEmail:     getEnv("MAIL_FROM", ""),
			AdminCopy:     getBool("ADMIN_EMAIL_COPY", false),
		},
		Visitor: VisitorConfig{
			OfficeName:        getEnv("OFFICE_NAME", "NYC"),
			AdminEmail:        getEnv("VISITOR_ADMIN_EMAIL", ""),
			Timezone:          getEnv("VISITOR_TIMEZONE", "America/New_York"),
			RateLimitRequests: getInt("RATE_LIMIT_REQUESTS", 30),
			RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
