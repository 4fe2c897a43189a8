package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// Pipeline tunables for the scan -> capture -> persist -> notify flow.
	Pipeline *PipelineConfig `json:"pipeline" yaml:"pipeline"`

	// Messaging configures the outbound guardian messaging gateway.
	Messaging *MessagingConfig `json:"messaging" yaml:"messaging"`

	// LocationAgent configures the device location service endpoint.
	LocationAgent *LocationAgentConfig `json:"locationAgent" yaml:"locationAgent"`

	// Geocoder configures best-effort reverse geocoding.
	Geocoder *GeocoderConfig `json:"geocoder" yaml:"geocoder"`

	// MQTT configures the tag-reader gateway subscription.
	MQTT *MQTTConfig `json:"mqtt" yaml:"mqtt"`

	// TagCode configures printable fallback codes for wristbands.
	TagCode *TagCodeConfig `json:"tagcode" yaml:"tagcode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// RedisConfig defines the connection for the ephemeral scan-session store.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`

	// SessionTTL bounds how long an opened scan session stays usable.
	SessionTTL time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
}

// PipelineConfig defines the timing knobs of the scan pipeline.
type PipelineConfig struct {
	// DebounceWindow suppresses repeated scans of the same tag within this interval.
	DebounceWindow time.Duration `json:"debounceWindow" yaml:"debounceWindow"`

	// CaptureTimeout bounds a single position fix request.
	CaptureTimeout time.Duration `json:"captureTimeout" yaml:"captureTimeout"`

	// MaxDispatchAttempts is the retry ceiling for guardian notifications.
	MaxDispatchAttempts int `json:"maxDispatchAttempts" yaml:"maxDispatchAttempts"`

	// RetryInitialInterval is the first backoff delay between dispatch attempts.
	RetryInitialInterval time.Duration `json:"retryInitialInterval" yaml:"retryInitialInterval"`

	// RetryPollInterval is how often the retry worker looks for due dispatches.
	RetryPollInterval time.Duration `json:"retryPollInterval" yaml:"retryPollInterval"`

	// ConfirmationCountdown is the auto-close delay for a confirmation instance.
	ConfirmationCountdown time.Duration `json:"confirmationCountdown" yaml:"confirmationCountdown"`
}

// MessagingConfig defines the outbound SMS gateway webhook.
type MessagingConfig struct {
	WebhookURL string        `json:"webhookUrl" yaml:"webhookUrl"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
}

// LocationAgentConfig defines the device location agent endpoint.
type LocationAgentConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// GeocoderConfig defines the reverse geocoding endpoint.
type GeocoderConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// MQTTConfig defines the broker the tag-reader gateways publish to.
type MQTTConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	BrokerURL string `json:"brokerUrl" yaml:"brokerUrl"`
	ClientID  string `json:"clientId" yaml:"clientId"`
	Topic     string `json:"topic" yaml:"topic"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
}

// TagCodeConfig defines QR generation for printable wristband codes.
type TagCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads .yaml files through koanf and overlays environment variables.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: REDIS_SESSIONTTL -> redis.sessionTtl (not redis.sessionttl)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyPipelineDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyPipelineDefaults fills in the documented defaults for any timing knob
// left unset, so a minimal config file still yields a working pipeline.
func applyPipelineDefaults(cfg *Config) {
	if cfg.Pipeline == nil {
		cfg.Pipeline = &PipelineConfig{}
	}
	p := cfg.Pipeline
	if p.DebounceWindow <= 0 {
		p.DebounceWindow = 10 * time.Second
	}
	if p.CaptureTimeout <= 0 {
		p.CaptureTimeout = 8 * time.Second
	}
	if p.MaxDispatchAttempts <= 0 {
		p.MaxDispatchAttempts = 3
	}
	if p.RetryInitialInterval <= 0 {
		p.RetryInitialInterval = 30 * time.Second
	}
	if p.RetryPollInterval <= 0 {
		p.RetryPollInterval = 5 * time.Second
	}
	if p.ConfirmationCountdown <= 0 {
		p.ConfirmationCountdown = 15 * time.Second
	}

	if cfg.Redis != nil && cfg.Redis.SessionTTL <= 0 {
		cfg.Redis.SessionTTL = 12 * time.Hour
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
