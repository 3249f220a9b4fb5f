package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode   `yaml:"mode"`
	HTTPAddr  string `yaml:"http_addr"`
	PublicURL string `yaml:"public_url"`

	DBDriver string `yaml:"db_driver"` // sqlite|postgres
	DBDSN    string `yaml:"db_dsn"`

	BlobBasePath string `yaml:"blob_base_path"`

	AuthHMACSecret  string `yaml:"auth_hmac_secret"`
	EnableLocalAuth bool   `yaml:"enable_local_auth"`
	EnableGuestAuth bool   `yaml:"enable_guest_auth"`
	AdminUser       string `yaml:"admin_user"`
	AdminPassHash   string `yaml:"admin_pass_hash"` // bcrypt

	CORSOriginsOnline  []string `yaml:"cors_origins_online"`
	CORSOriginsOffline []string `yaml:"cors_origins_offline"`

	// xAPI
	ActivityBase string `yaml:"activity_base"`
	HomePage     string `yaml:"home_page"`

	// LRS forwarding; disabled when LRSEndpoint is empty.
	LRSEndpoint     string        `yaml:"lrs_endpoint"`
	LRSTokenURL     string        `yaml:"lrs_token_url"`
	LRSClientID     string        `yaml:"lrs_client_id"`
	LRSClientSecret string        `yaml:"lrs_client_secret"`
	LRSScopes       []string      `yaml:"lrs_scopes"`
	LRSUsername     string        `yaml:"lrs_username"`
	LRSPassword     string        `yaml:"lrs_password"`
	SyncInterval    time.Duration `yaml:"sync_interval"`
	SyncMaxRetries  int           `yaml:"sync_max_retries"`

	AMQPURI      string `yaml:"amqp_uri"`
	AMQPExchange string `yaml:"amqp_exchange"`

	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

// CORSOrigins returns the origin list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// AssetsBase is the public prefix of the assets route.
func (c Config) AssetsBase() string {
	return strings.TrimSuffix(c.PublicURL, "/") + "/assets"
}

// Load reads .env if present, then the environment, then the YAML file
// named by CONFIG_FILE. Keys present in the file win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	cfg := FromEnv()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.Overlay(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Overlay decodes the YAML file at path over c.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	pub := envOr("PUBLIC_URL", "http://localhost:8080")
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		PublicURL:          pub,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		EnableLocalAuth:    envBool("ENABLE_LOCAL_AUTH", true),
		EnableGuestAuth:    envBool("ENABLE_GUEST_AUTH", true),
		AdminUser:          envOr("ADMIN_USER", "admin"),
		AdminPassHash:      envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://lms.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),

		ActivityBase: envOr("XAPI_ACTIVITY_BASE", strings.TrimSuffix(pub, "/")+"/flashcards"),
		HomePage:     envOr("XAPI_HOME_PAGE", pub),

		LRSEndpoint:     os.Getenv("LRS_ENDPOINT"),
		LRSTokenURL:     os.Getenv("LRS_TOKEN_URL"),
		LRSClientID:     os.Getenv("LRS_CLIENT_ID"),
		LRSClientSecret: os.Getenv("LRS_CLIENT_SECRET"),
		LRSScopes:       csvOr("LRS_SCOPES", ""),
		LRSUsername:     os.Getenv("LRS_USERNAME"),
		LRSPassword:     os.Getenv("LRS_PASSWORD"),
		SyncInterval:    envDuration("SYNC_INTERVAL", time.Minute),
		SyncMaxRetries:  envInt("SYNC_MAX_RETRIES", 5),

		AMQPURI:      os.Getenv("AMQP_URI"),
		AMQPExchange: envOr("AMQP_EXCHANGE", "flashcards.events"),

		SessionIdleTTL: envDuration("SESSION_IDLE_TTL", 2*time.Hour),
		SweepInterval:  envDuration("SWEEP_INTERVAL", 5*time.Minute),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q: %v; using %s", k, v, err, def)
		return def
	}
	return d
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
