package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	ENVIRONMENT_TEST        = "test"
	ENVIRONMENT_DEVELOPMENT = "development"
	ENVIRONMENT_PRODUCTION  = "production"

	USER_STORE_POSTGRES = "postgres"
	USER_STORE_MONGO    = "mongo"

	CACHE_BACKEND_REDIS  = "redis"
	CACHE_BACKEND_MEMORY = "memory"

	MAIL_BACKEND_SES  = "ses"
	MAIL_BACKEND_SMTP = "smtp"

	MIN_BCRYPT_HASHER_COST = 12
)

type Config struct {
	Environment    string   `env:"ENVIRONMENT" envDefault:"test"`
	Port           uint16   `env:"PORT" envDefault:"8080"`
	Secret         string   `env:"SECRET,required"`
	JWTSecret      string   `env:"JWT_SECRET,required"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	SentryDsn      string   `env:"SENTRY_DSN"`

	UserStore      string        `env:"USER_STORE" envDefault:"postgres"`
	PostgresqlURL  string        `env:"POSTGRESQL_URL"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	MongodbURI     string        `env:"MONGODB_URI"`
	MongodbName    string        `env:"MONGODB_DATABASE" envDefault:"ovidot"`
	DBTimeout      time.Duration `env:"DB_TIMEOUT" envDefault:"5s"`

	CacheBackend          string        `env:"CACHE_BACKEND" envDefault:"redis"`
	RedisHost             string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort             uint16        `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername         string        `env:"REDIS_USERNAME"`
	RedisPassword         string        `env:"REDIS_PASSWORD"`
	RedisTLSKeyFile       string        `env:"REDIS_TLS_KEY_FILE"`
	RedisTLSCertFile      string        `env:"REDIS_TLS_CERT_FILE"`
	RedisTLSCAFile        string        `env:"REDIS_TLS_CA_FILE"`
	RedisMaxRetries       int           `env:"REDIS_MAX_RETRIES" envDefault:"10"`
	CacheOperationTimeout time.Duration `env:"CACHE_OPERATION_TIMEOUT" envDefault:"2s"`
	CacheBucketTTL        time.Duration `env:"CACHE_BUCKET_TTL" envDefault:"480h"`
	BlacklistFailClosed   bool          `env:"BLACKLIST_FAIL_CLOSED" envDefault:"false"`

	BcryptHasherCost             int           `env:"BCRYPT_HASHER_COST" envDefault:"12"`
	PasswordResetValidDuration   time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"30m"`
	PasswordResetAllowedBaseURLs []string      `env:"PASSWORD_RESET_ALLOWED_BASE_URLS" envSeparator:","`
	MaxNotifications             int           `env:"MAX_NOTIFICATIONS" envDefault:"15"`

	MailBackend                   string        `env:"MAIL_BACKEND" envDefault:"ses"`
	MailTimeout                   time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
	AwsRegion                     string        `env:"AWS_REGION"`
	AwsAccessKey                  string        `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string        `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string        `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string        `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE"`
	SMTPHost                      string        `env:"SMTP_HOST"`
	SMTPPort                      int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername                  string        `env:"SMTP_USERNAME"`
	SMTPPassword                  string        `env:"SMTP_PASSWORD"`
	SMTPFrom                      string        `env:"SMTP_FROM"`
}

func (c *Config) IsTestMode() bool {
	return c.Environment == ENVIRONMENT_TEST
}

func (c *Config) IsDevelopment() bool {
	return c.Environment != ENVIRONMENT_PRODUCTION
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	isPostgres := c.UserStore == USER_STORE_POSTGRES
	isSES := c.MailBackend == MAIL_BACKEND_SES
	isSMTP := c.MailBackend == MAIL_BACKEND_SMTP

	err := validation.ValidateStruct(c,
		validation.Field(
			&c.Environment,
			validation.Required,
			validation.In(ENVIRONMENT_TEST, ENVIRONMENT_DEVELOPMENT, ENVIRONMENT_PRODUCTION),
		),
		validation.Field(&c.Secret, validation.Required),
		validation.Field(&c.JWTSecret, validation.Required),
		validation.Field(&c.UserStore, validation.Required, validation.In(USER_STORE_POSTGRES, USER_STORE_MONGO)),
		validation.Field(&c.PostgresqlURL, requiredIf(isPostgres)...),
		validation.Field(&c.MongodbURI, requiredIf(c.UserStore == USER_STORE_MONGO)...),
		validation.Field(&c.DBTimeout, validation.Required),
		validation.Field(
			&c.CacheBackend,
			validation.Required,
			validation.In(CACHE_BACKEND_REDIS, CACHE_BACKEND_MEMORY),
		),
		validation.Field(&c.RedisTLSKeyFile, requiredIf(c.securedRedis())...),
		validation.Field(&c.RedisTLSCertFile, requiredIf(c.securedRedis())...),
		validation.Field(&c.RedisTLSCAFile, requiredIf(c.securedRedis())...),
		validation.Field(&c.CacheOperationTimeout, validation.Required),
		// Blacklisted tokens must outlive the reset window.
		validation.Field(&c.CacheBucketTTL, validation.Required, validation.Min(c.PasswordResetValidDuration)),
		validation.Field(&c.BcryptHasherCost, validation.Required, validation.Min(MIN_BCRYPT_HASHER_COST)),
		validation.Field(&c.PasswordResetValidDuration, validation.Required),
		validation.Field(&c.MaxNotifications, validation.Required, validation.Min(1)),
		validation.Field(&c.MailBackend, validation.Required, validation.In(MAIL_BACKEND_SES, MAIL_BACKEND_SMTP)),
		validation.Field(&c.MailTimeout, validation.Required),
		validation.Field(&c.AwsRegion, requiredIf(isSES)...),
		validation.Field(&c.AwsEmailSender, requiredIf(isSES, is.Email)...),
		validation.Field(&c.AwsEmailPasswordResetTemplate, requiredIf(isSES)...),
		validation.Field(&c.SMTPHost, requiredIf(isSMTP)...),
		validation.Field(&c.SMTPFrom, requiredIf(isSMTP, is.Email)...),
	)
	if err != nil {
		return err
	}

	for _, baseURL := range c.PasswordResetAllowedBaseURLs {
		if err := validation.Validate(baseURL, validation.Required, is.RequestURL); err != nil {
			return fmt.Errorf("PasswordResetAllowedBaseURLs: %q %w", baseURL, err)
		}
	}
	return nil
}

func requiredIf(condition bool, rules ...validation.Rule) []validation.Rule {
	if !condition {
		return nil
	}
	return append([]validation.Rule{validation.Required}, rules...)
}

func (c *Config) securedRedis() bool {
	return c.CacheBackend == CACHE_BACKEND_REDIS && !c.IsTestMode()
}
