package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"gold-catalog/internal/logger"
	"gold-catalog/internal/pricing"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppName  string `envconfig:"APP_NAME" default:"gold-catalog"`
	AppPort  string `envconfig:"APP_PORT" default:"3001"`
	GrpcPort string `envconfig:"GRPC_PORT" default:"50051"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	UpstreamURL       string       `envconfig:"UPSTREAM_URL" default:"https://api.gold-api.com/price/XAU"`
	UpstreamAPIKey    string       `envconfig:"UPSTREAM_API_KEY"`
	UpstreamPriceUnit pricing.Unit `envconfig:"UPSTREAM_PRICE_UNIT" default:"ounce"`
	UpstreamTimeoutMs int64        `envconfig:"UPSTREAM_TIMEOUT_MS" default:"0"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"https://frontend-nine-tau-32.vercel.app,http://localhost:3000"`
	CatalogPath    string   `envconfig:"CATALOG_PATH" default:"./products.json"`

	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDBName     string `envconfig:"MONGO_DB_NAME" default:"gold_catalog"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"product"`

	ExternalHTTP     string `envconfig:"EXTERNAL_HTTP" default:"http://localhost:3001"`
	ExternalGRPC     string `envconfig:"EXTERNAL_GRPC" default:"localhost:50051"`
	ClientMaxSleepMs int64  `envconfig:"CLIENT_MAX_SLEEP_MS" default:"1000"`
	ClientDebounceMs int64  `envconfig:"CLIENT_DEBOUNCE_MS" default:"1500"`

	RemoteLogHttpURI       string `envconfig:"REMOTE_LOG_HTTP_URI"`
	RemoteTraceRpcURI      string `envconfig:"REMOTE_TRACE_RPC_URI"`
	RemoteProfilingHttpURI string `envconfig:"REMOTE_PROFILING_HTTP_URI"`
	TraceStdout            bool   `envconfig:"TRACE_STDOUT" default:"false"`
}

// SafeConfig is the loggable view of Config; secrets and credentials are left out.
type SafeConfig struct {
	AppName           string   `json:"app_name"`
	AppPort           string   `json:"app_port"`
	GrpcPort          string   `json:"grpc_port"`
	Env               string   `json:"env"`
	UpstreamURL       string   `json:"upstream_url"`
	UpstreamAPIKeySet bool     `json:"upstream_api_key_set"`
	UpstreamPriceUnit string   `json:"upstream_price_unit"`
	UpstreamTimeoutMs int64    `json:"upstream_timeout_ms"`
	AllowedOrigins    []string `json:"allowed_origins"`
	CatalogPath       string   `json:"catalog_path"`
	MongoEnabled      bool     `json:"mongo_enabled"`
	MongoDBName       string   `json:"mongo_db_name"`
	MongoCollection   string   `json:"mongo_collection"`
	ExternalHTTP      string   `json:"external_http"`
	ExternalGRPC      string   `json:"external_grpc"`
	ClientDebounceMs  int64    `json:"client_debounce_ms"`
	RemoteLogHttpURI  string   `json:"remote_log_http_uri"`
	RemoteTraceRpcURI string   `json:"remote_trace_rpc_uri"`
	TraceStdout       bool     `json:"trace_stdout"`
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppName:           c.AppName,
		AppPort:           c.AppPort,
		GrpcPort:          c.GrpcPort,
		Env:               c.Env,
		UpstreamURL:       c.UpstreamURL,
		UpstreamAPIKeySet: c.UpstreamAPIKey != "",
		UpstreamPriceUnit: string(c.UpstreamPriceUnit),
		UpstreamTimeoutMs: c.UpstreamTimeoutMs,
		AllowedOrigins:    c.AllowedOrigins,
		CatalogPath:       c.CatalogPath,
		MongoEnabled:      c.MongoEnabled(),
		MongoDBName:       c.MongoDBName,
		MongoCollection:   c.MongoCollection,
		ExternalHTTP:      c.ExternalHTTP,
		ExternalGRPC:      c.ExternalGRPC,
		ClientDebounceMs:  c.ClientDebounceMs,
		RemoteLogHttpURI:  c.RemoteLogHttpURI,
		RemoteTraceRpcURI: c.RemoteTraceRpcURI,
		TraceStdout:       c.TraceStdout,
	}
}

// MongoEnabled reports whether the catalog is served from MongoDB instead of CatalogPath.
func (c *Config) MongoEnabled() bool {
	return c.MongoURI != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	var missing []string
	if c.AppPort == "" {
		missing = append(missing, "APP_PORT")
	}
	if c.UpstreamURL == "" {
		missing = append(missing, "UPSTREAM_URL")
	}
	if !c.MongoEnabled() && c.CatalogPath == "" {
		missing = append(missing, "CATALOG_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if err := c.UpstreamPriceUnit.Validate(); err != nil {
		return fmt.Errorf("UPSTREAM_PRICE_UNIT: %w", err)
	}
	if c.UpstreamTimeoutMs < 0 {
		return errors.New("UPSTREAM_TIMEOUT_MS must not be negative")
	}
	if c.ClientDebounceMs <= 0 {
		return errors.New("CLIENT_DEBOUNCE_MS must be positive")
	}
	if c.ClientMaxSleepMs <= 0 {
		return errors.New("CLIENT_MAX_SLEEP_MS must be positive")
	}
	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimRight(strings.TrimSpace(origin), "/")
	}
	return nil
}

// Load reads the optional .env file and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Instance().Warn("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	configInstance *Config
	configOnce     sync.Once
)

// Instance loads the configuration once per process and exits on failure.
func Instance() *Config {
	configOnce.Do(func() {
		log := logger.Instance()

		cfg, err := Load()
		if err != nil {
			log.Error("Invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if cfg.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if cfg.RemoteTraceRpcURI == "" {
			log.Warn("Missing REMOTE_TRACE_RPC_URI will skip sending trace")
		}
		if cfg.RemoteProfilingHttpURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip sending profiling")
		}

		logger.Configure(logger.Options{
			Level:     cfg.LogLevel,
			RemoteURI: cfg.RemoteLogHttpURI,
			Job:       cfg.AppName,
		})

		attrs := StructAttrs("data", cfg.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		logger.Instance().Info("Configuration loaded successfully", anyAttrs...)

		configInstance = cfg
	})

	return configInstance
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3001"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, fv.String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, fv.Int()))
		case reflect.Bool:
			attrs = append(attrs, slog.Bool(key, fv.Bool()))
		default:
			attrs = append(attrs, slog.Any(key, fv.Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}
