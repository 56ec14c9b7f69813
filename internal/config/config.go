package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env"`
		BaseURL string `yaml:"base_url"` // usado en links de emails
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver         string `yaml:"driver"`
		DSN            string `yaml:"dsn"`
		MaxOpenConns   int    `yaml:"max_open_conns"`
		MinConns       int    `yaml:"min_conns"`
		MigrateOnStart bool   `yaml:"migrate_on_start"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		DefaultTTL   time.Duration `yaml:"default_ttl"`
		DashboardTTL time.Duration `yaml:"dashboard_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string        `yaml:"secret"`
		Issuer    string        `yaml:"issuer"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"jwt"`

	OTP struct {
		Length      int           `yaml:"length"`
		TTL         time.Duration `yaml:"ttl"`
		MaxAttempts int           `yaml:"max_attempts"`
	} `yaml:"otp"`

	Security struct {
		PasswordMinLength int  `yaml:"password_min_length"`
		RequireDigit      bool `yaml:"require_digit"`
		RequireLetter     bool `yaml:"require_letter"`
		BcryptCost        int  `yaml:"bcrypt_cost"`
	} `yaml:"security"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
		Login       RateRule      `yaml:"login"`
		OTP         RateRule      `yaml:"otp"`
	} `yaml:"rate"`

	Email struct {
		// smtp | ses | noop
		Driver string `yaml:"driver"`
		From   string `yaml:"from"`
		SMTP   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username"`
			Password string `yaml:"password"`
			// auto | starttls | ssl | none
			TLSMode string `yaml:"tls_mode"`
		} `yaml:"smtp"`
		SES struct {
			Region string `yaml:"region"`
		} `yaml:"ses"`
	} `yaml:"email"`

	Files struct {
		// s3 | noop
		Driver     string        `yaml:"driver"`
		Bucket     string        `yaml:"bucket"`
		Region     string        `yaml:"region"`
		Endpoint   string        `yaml:"endpoint"` // MinIO / localstack
		AccessKey  string        `yaml:"access_key"`
		SecretKey  string        `yaml:"secret_key"`
		PresignTTL time.Duration `yaml:"presign_ttl"`
	} `yaml:"files"`

	Billing struct {
		Currency string `yaml:"currency"`
	} `yaml:"billing"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
}

// RateRule límite específico de un endpoint.
type RateRule struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// Load lee el YAML (si path no está vacío), aplica defaults y variables de entorno.
// Un path inexistente no es error: se usa sólo env + defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "syndik:"
	}
	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = 2 * time.Minute
	}
	if c.Cache.DashboardTTL == 0 {
		c.Cache.DashboardTTL = 30 * time.Second
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "syndik"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 24 * time.Hour
	}
	if c.OTP.Length == 0 {
		c.OTP.Length = 6
	}
	if c.OTP.TTL == 0 {
		c.OTP.TTL = 10 * time.Minute
	}
	if c.OTP.MaxAttempts == 0 {
		c.OTP.MaxAttempts = 5
	}
	if c.Security.PasswordMinLength == 0 {
		c.Security.PasswordMinLength = 8
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = 12
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 120
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Rate.OTP.Limit == 0 {
		c.Rate.OTP.Limit = 5
	}
	if c.Rate.OTP.Window == 0 {
		c.Rate.OTP.Window = 10 * time.Minute
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "noop"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Email.SMTP.TLSMode == "" {
		c.Email.SMTP.TLSMode = "auto"
	}
	if c.Files.Driver == "" {
		c.Files.Driver = "noop"
	}
	if c.Files.PresignTTL == 0 {
		c.Files.PresignTTL = 15 * time.Minute
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "MAD"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

func setStr(dst *string, key string) {
	if v, ok := getEnvStr(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := getEnvInt(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := getEnvBool(key); ok {
		*dst = v
	}
}

func setDur(dst *time.Duration, key string) {
	if v, ok := getEnvDur(key); ok {
		*dst = v
	}
}

// applyEnvOverrides pisa los valores del YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	setStr(&c.App.BaseURL, "APP_BASE_URL")

	setStr(&c.Server.Addr, "SERVER_ADDR")
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	setDur(&c.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setDur(&c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setDur(&c.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")

	setStr(&c.Storage.Driver, "STORAGE_DRIVER")
	setStr(&c.Storage.DSN, "STORAGE_DSN")
	setStr(&c.Storage.DSN, "DATABASE_URL")
	setInt(&c.Storage.MaxOpenConns, "STORAGE_MAX_OPEN_CONNS")
	setInt(&c.Storage.MinConns, "STORAGE_MIN_CONNS")
	setBool(&c.Storage.MigrateOnStart, "STORAGE_MIGRATE_ON_START")

	setStr(&c.Cache.Kind, "CACHE_KIND")
	setStr(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setStr(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Cache.Redis.DB, "REDIS_DB")
	setStr(&c.Cache.Redis.Prefix, "REDIS_PREFIX")
	setDur(&c.Cache.DashboardTTL, "CACHE_DASHBOARD_TTL")

	setStr(&c.JWT.Secret, "JWT_SECRET")
	setStr(&c.JWT.Issuer, "JWT_ISSUER")
	setDur(&c.JWT.AccessTTL, "JWT_ACCESS_TTL")

	setInt(&c.OTP.Length, "OTP_LENGTH")
	setDur(&c.OTP.TTL, "OTP_TTL")
	setInt(&c.OTP.MaxAttempts, "OTP_MAX_ATTEMPTS")

	setInt(&c.Security.PasswordMinLength, "SECURITY_PASSWORD_MIN_LENGTH")
	setInt(&c.Security.BcryptCost, "SECURITY_BCRYPT_COST")

	setBool(&c.Rate.Enabled, "RATE_ENABLED")
	setDur(&c.Rate.Window, "RATE_WINDOW")
	setInt(&c.Rate.MaxRequests, "RATE_MAX_REQUESTS")
	setInt(&c.Rate.Login.Limit, "RATE_LOGIN_LIMIT")
	setDur(&c.Rate.Login.Window, "RATE_LOGIN_WINDOW")
	setInt(&c.Rate.OTP.Limit, "RATE_OTP_LIMIT")
	setDur(&c.Rate.OTP.Window, "RATE_OTP_WINDOW")

	setStr(&c.Email.Driver, "EMAIL_DRIVER")
	setStr(&c.Email.From, "EMAIL_FROM")
	setStr(&c.Email.SMTP.Host, "SMTP_HOST")
	setInt(&c.Email.SMTP.Port, "SMTP_PORT")
	setStr(&c.Email.SMTP.Username, "SMTP_USERNAME")
	setStr(&c.Email.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.Email.SMTP.TLSMode, "SMTP_TLS_MODE")
	setStr(&c.Email.SES.Region, "SES_REGION")

	setStr(&c.Files.Driver, "FILES_DRIVER")
	setStr(&c.Files.Bucket, "FILES_BUCKET")
	setStr(&c.Files.Region, "FILES_REGION")
	setStr(&c.Files.Endpoint, "FILES_ENDPOINT")
	setStr(&c.Files.AccessKey, "FILES_ACCESS_KEY")
	setStr(&c.Files.SecretKey, "FILES_SECRET_KEY")
	setDur(&c.Files.PresignTTL, "FILES_PRESIGN_TTL")

	setStr(&c.Billing.Currency, "BILLING_CURRENCY")
	setStr(&c.Log.Level, "LOG_LEVEL")
	setBool(&c.Tracing.Enabled, "TRACING_ENABLED")
}

// Validate verifica los valores críticos.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported", c.Cache.Kind))
	}

	if len(c.JWT.Secret) < 32 {
		if c.App.Env == "prod" {
			errs = append(errs, errors.New("jwt.secret must have at least 32 bytes in prod"))
		} else if c.JWT.Secret == "" {
			errs = append(errs, errors.New("jwt.secret is required"))
		}
	}

	switch c.Email.Driver {
	case "noop":
	case "smtp":
		if c.Email.SMTP.Host == "" || c.Email.From == "" {
			errs = append(errs, errors.New("email.smtp.host and email.from are required for smtp"))
		}
	case "ses":
		if c.Email.SES.Region == "" || c.Email.From == "" {
			errs = append(errs, errors.New("email.ses.region and email.from are required for ses"))
		}
	default:
		errs = append(errs, fmt.Errorf("email.driver %q not supported", c.Email.Driver))
	}

	switch c.Files.Driver {
	case "noop":
	case "s3":
		if c.Files.Bucket == "" {
			errs = append(errs, errors.New("files.bucket is required for s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("files.driver %q not supported", c.Files.Driver))
	}

	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		errs = append(errs, errors.New("otp.length must be between 4 and 10"))
	}

	return errors.Join(errs...)
}
