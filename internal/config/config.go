package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	MediaBackendDB = "db"
	MediaBackendS3 = "s3"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
		BaseURL string `json:"base_url"`
	} `json:"server"`
	Database *struct {
		Driver   string `json:"driver"`
		Path     string `json:"path"`
		Addr     string `json:"mysql_addr"`
		User     string `json:"mysql_user"`
		Password string `json:"mysql_password"`
		Name     string `json:"mysql_database"`
	} `json:"database"`
	Media *struct {
		Backend       string `json:"backend"`
		Bucket        string `json:"s3_bucket"`
		Region        string `json:"s3_region"`
		Endpoint      string `json:"s3_endpoint"`
		Prefix        string `json:"s3_prefix"`
		PresignTTL    string `json:"s3_presign_ttl"`
		MaxUploadSize int64  `json:"max_upload_bytes"`
		MaxPixels     int64  `json:"max_image_pixels"`
	} `json:"media"`
	Auth *struct {
		AdminEmails  []string `json:"admin_emails"`
		EditorEmails []string `json:"editor_emails"`
		SessionTTL   string   `json:"session_ttl"`
		NonceTTL     string   `json:"nonce_ttl"`
	} `json:"auth"`
	Log *struct {
		Level string `json:"level"`
		Dir   string `json:"dir"`
	} `json:"log"`
}

// LoadedConfig is the effective configuration: file values first, then
// environment overrides.
type LoadedConfig struct {
	ServerAddress string `env:"KGM_SERVER_ADDRESS"`
	BaseURL       string `env:"KGM_BASE_URL"`

	DBDriver      string `env:"KGM_DB_DRIVER"`
	DBPath        string `env:"KGM_DB_PATH"`
	MySQLAddr     string `env:"KGM_MYSQL_ADDR"`
	MySQLUser     string `env:"KGM_MYSQL_USER"`
	MySQLPassword string `env:"KGM_MYSQL_PASSWORD"`
	MySQLDatabase string `env:"KGM_MYSQL_DATABASE"`

	MediaBackend   string        `env:"KGM_MEDIA_BACKEND"`
	S3Bucket       string        `env:"KGM_S3_BUCKET"`
	S3Region       string        `env:"KGM_S3_REGION"`
	S3Endpoint     string        `env:"KGM_S3_ENDPOINT"`
	S3Prefix       string        `env:"KGM_S3_PREFIX"`
	S3AccessKeyID  string        `env:"KGM_S3_ACCESS_KEY_ID"`
	S3SecretKey    string        `env:"KGM_S3_SECRET_ACCESS_KEY"`
	S3PresignTTL   time.Duration `env:"KGM_S3_PRESIGN_TTL"`
	MaxUploadBytes int64         `env:"KGM_MAX_UPLOAD_BYTES"`
	MaxImagePixels int64         `env:"KGM_MAX_IMAGE_PIXELS"`

	AdminEmails  []string      `env:"KGM_ADMIN_EMAILS" envSeparator:","`
	EditorEmails []string      `env:"KGM_EDITOR_EMAILS" envSeparator:","`
	SessionTTL   time.Duration `env:"KGM_SESSION_TTL"`
	NonceTTL     time.Duration `env:"KGM_NONCE_TTL"`

	LogLevel string `env:"KGM_LOG_LEVEL"`
	LogDir   string `env:"KGM_LOG_DIR"`
}

func defaults() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress:  ":8080",
		DBDriver:       "sqlite",
		DBPath:         "./data/kids_games.db",
		MediaBackend:   MediaBackendDB,
		S3PresignTTL:   time.Hour,
		MaxUploadBytes: 8 << 20,
		MaxImagePixels: 40_000_000,
		SessionTTL:     24 * time.Hour,
		NonceTTL:       12 * time.Hour,
		LogLevel:       "info",
	}
}

// Load reads the optional JSON file at path, applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (*LoadedConfig, error) {
	cfg := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := applyFile(cfg, b); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)
	cfg.EditorEmails = normalizeEmails(cfg.EditorEmails)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *LoadedConfig, b []byte) error {
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return err
	}
	if s := rc.Server; s != nil {
		setString(&cfg.ServerAddress, s.Address)
		setString(&cfg.BaseURL, s.BaseURL)
	}
	if d := rc.Database; d != nil {
		setString(&cfg.DBDriver, d.Driver)
		setString(&cfg.DBPath, d.Path)
		setString(&cfg.MySQLAddr, d.Addr)
		setString(&cfg.MySQLUser, d.User)
		setString(&cfg.MySQLPassword, d.Password)
		setString(&cfg.MySQLDatabase, d.Name)
	}
	if m := rc.Media; m != nil {
		setString(&cfg.MediaBackend, m.Backend)
		setString(&cfg.S3Bucket, m.Bucket)
		setString(&cfg.S3Region, m.Region)
		setString(&cfg.S3Endpoint, m.Endpoint)
		setString(&cfg.S3Prefix, m.Prefix)
		if err := setDuration(&cfg.S3PresignTTL, m.PresignTTL, "media.s3_presign_ttl"); err != nil {
			return err
		}
		if m.MaxUploadSize > 0 {
			cfg.MaxUploadBytes = m.MaxUploadSize
		}
		if m.MaxPixels > 0 {
			cfg.MaxImagePixels = m.MaxPixels
		}
	}
	if a := rc.Auth; a != nil {
		if len(a.AdminEmails) > 0 {
			cfg.AdminEmails = a.AdminEmails
		}
		if len(a.EditorEmails) > 0 {
			cfg.EditorEmails = a.EditorEmails
		}
		if err := setDuration(&cfg.SessionTTL, a.SessionTTL, "auth.session_ttl"); err != nil {
			return err
		}
		if err := setDuration(&cfg.NonceTTL, a.NonceTTL, "auth.nonce_ttl"); err != nil {
			return err
		}
	}
	if l := rc.Log; l != nil {
		setString(&cfg.LogLevel, l.Level)
		setString(&cfg.LogDir, l.Dir)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, name string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func (c *LoadedConfig) validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("database driver must be sqlite or mysql, got %q", c.DBDriver)
	}
	if c.DBDriver == "mysql" && (c.MySQLAddr == "" || c.MySQLDatabase == "") {
		return fmt.Errorf("mysql driver requires mysql_addr and mysql_database")
	}
	switch c.MediaBackend {
	case MediaBackendDB:
	case MediaBackendS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return fmt.Errorf("s3 media backend requires s3_bucket and s3_region")
		}
	default:
		return fmt.Errorf("media backend must be db or s3, got %q", c.MediaBackend)
	}
	if c.SessionTTL <= 0 || c.NonceTTL <= 0 {
		return fmt.Errorf("session and nonce lifetimes must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("max image pixels must be positive")
	}
	return nil
}
