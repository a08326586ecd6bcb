package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Upload  UploadConfig  `yaml:"upload" mapstructure:"upload"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Tika    TikaConfig    `yaml:"tika" mapstructure:"tika"`
	OCR     OCRConfig     `yaml:"ocr" mapstructure:"ocr"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
	CORS    CORSConfig    `yaml:"cors" mapstructure:"cors"`
	Unidoc  UnidocConfig  `yaml:"unidoc" mapstructure:"unidoc"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// UploadConfig configures upload staging.
type UploadConfig struct {
	MaxBytes int64  `yaml:"max_bytes" mapstructure:"max_bytes"`
	TempDir  string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ExtractConfig holds Extractor options.
type ExtractConfig struct {
	FileBanner    bool   `yaml:"file_banner" mapstructure:"file_banner"`
	SheetEncoding string `yaml:"sheet_encoding" mapstructure:"sheet_encoding"`
	SniffContent  bool   `yaml:"sniff_content" mapstructure:"sniff_content"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// TikaConfig points the generic fallback at an Apache Tika server.
type TikaConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OCRConfig enables image OCR in the generic fallback.
type OCRConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	Languages []string `yaml:"languages" mapstructure:"languages"`
}

// AuthConfig enables bearer-token auth when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}

// UnidocConfig carries the optional unioffice licence.
type UnidocConfig struct {
	LicenseKey string `yaml:"license_key" mapstructure:"license_key"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "EXTRACTOR_SERVER_PORT", "PORT"); err != nil {
		return nil, eris.Wrap(err, "config: bind port env")
	}

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("upload.max_bytes", 50<<20)
	v.SetDefault("upload.temp_dir", "")
	v.SetDefault("extract.file_banner", false)
	v.SetDefault("extract.sheet_encoding", "csv")
	v.SetDefault("extract.sniff_content", true)
	v.SetDefault("extract.concurrency", 4)
	v.SetDefault("tika.url", "")
	v.SetDefault("tika.timeout", 60*time.Second)
	v.SetDefault("ocr.enabled", false)
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("unidoc.license_key", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	switch c.Extract.SheetEncoding {
	case "csv", "json":
	default:
		return eris.Errorf("config: extract.sheet_encoding must be csv or json, got %q", c.Extract.SheetEncoding)
	}
	if c.Upload.MaxBytes < 0 {
		return eris.Errorf("config: invalid upload.max_bytes %d", c.Upload.MaxBytes)
	}
	return nil
}

// AuthEnabled reports whether the extract routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// InitLogger builds the zap logger and installs it as the global logger.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
