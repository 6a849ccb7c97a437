package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Store    StoreConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Approval ApprovalConfig
	Gemini   GeminiConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	PublicURL string // base de los enlaces que salen por correo
	LogLevel  string
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool { return c.Env == "development" }

// StoreConfig selección y límites del almacén de documentos.
type StoreConfig struct {
	Driver     string // postgres | memory
	Timeout    time.Duration
	MaxRetries int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión para los bloqueos distribuidos. Addr vacío = bloqueo en proceso.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// SMTPConfig servidor de correo para las solicitudes de aprobación. Host vacío = solo log.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled indica si hay SMTP configurado.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// ApprovalConfig destinatario y vigencia de los enlaces de aprobación.
type ApprovalConfig struct {
	ApproverEmail string
	TokenTTL      time.Duration
}

// GeminiConfig credenciales del asistente IA. APIKey vacío = IA deshabilitada.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, SMTP_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "orderflow-api"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", "http://localhost:8080"), "/"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:     getString(v, "STORE_DRIVER", "postgres"),
			Timeout:    time.Duration(getInt(v, "STORE_TIMEOUT_SECONDS", 5)) * time.Second,
			MaxRetries: getInt(v, "STORE_MAX_RETRIES", 3),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "orderflow"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "orderflow-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			LockTTL:  time.Duration(getInt(v, "LOCK_TTL_SECONDS", 10)) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "compras@orderflow.local"),
		},
		Approval: ApprovalConfig{
			ApproverEmail: getString(v, "APPROVER_EMAIL", ""),
			TokenTTL:      time.Duration(getInt(v, "APPROVAL_TOKEN_HOURS", 72)) * time.Hour,
		},
		Gemini: GeminiConfig{
			APIKey: getString(v, "GEMINI_API_KEY", ""),
			Model:  getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER inválido: %q (postgres | memory)", c.Store.Driver)
	}
	if c.JWT.Secret == "" && !c.App.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET es obligatorio fuera de development")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS debe ser mayor a cero")
	}
	if c.Store.MaxRetries < 0 {
		return fmt.Errorf("STORE_MAX_RETRIES no puede ser negativo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
