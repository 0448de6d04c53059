package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string

	// FirebaseAdminJSON is the service account key used by the Admin SDK, Firestore and Storage.
	FirebaseAdminJSON []byte
	Firebase          FirebaseClientConfig
	// ProjectID comes from FIREBASE_CONFIG, falling back to the service account.
	ProjectID string

	DocStore      string
	MongoURI      string
	MongoDatabase string

	AssetBackend  string
	StorageBucket string
	S3            S3Config
	LocalAssetDir string
	PublicBaseURL string

	MaxUploadBytes    int64
	RequestTimeout    time.Duration
	RequireAuth       bool
	AllowedOrigins    []string
	TrustedProxies    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	TokenCacheSize         int
	TokenCacheTTL          time.Duration
	CleanupOrphanedUploads bool
	UpdateMaxAttempts      int

	SendGridAPIKey string
	MailFrom       string
}

// S3Config is the S3-compatible asset bucket.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Load reads .env, then the optional TOML file named by CONFIG_FILE, then the
// environment. Environment variables win over the file, which wins over defaults.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	src := source{}
	if path := os.Getenv(EnvConfigFile); path != "" {
		file, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}

	cfg, err := src.parse()
	if err != nil {
		return nil, err
	}
	if err := ValidateEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s source) parse() (*Config, error) {
	port, err := strconv.Atoi(s.get(EnvPort, DefaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}

	firebase, err := ParseFirebaseConfig(s.get(EnvFirebaseConfig, ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        port,
		Environment: s.get(EnvEnvironment, DefaultEnvironment),
		LogLevel:    s.get(EnvLogLevel, DefaultLogLevel),
		LogFormat:   s.get(EnvLogFormat, DefaultLogFormat),
		ServiceName: s.get(EnvServiceName, DefaultServiceName),
		Version:     s.get(EnvVersion, DefaultVersion),

		FirebaseAdminJSON: []byte(s.get(EnvFirebaseAdminJSON, "")),
		Firebase:          firebase,
		ProjectID:         firebase.ProjectID,

		DocStore:      strings.ToLower(s.get(EnvDocStore, DocStoreFirestore)),
		MongoURI:      s.get(EnvMongoURI, ""),
		MongoDatabase: s.get(EnvMongoDatabase, DefaultMongoDatabase),

		AssetBackend:  strings.ToLower(s.get(EnvAssetBackend, AssetBackendFirebase)),
		StorageBucket: s.get(EnvStorageBucket, firebase.StorageBucket),
		S3: S3Config{
			Bucket:        s.get(EnvS3Bucket, ""),
			Region:        s.get(EnvS3Region, ""),
			Endpoint:      s.get(EnvS3Endpoint, ""),
			AccessKey:     s.get(EnvS3AccessKey, ""),
			SecretKey:     s.get(EnvS3SecretKey, ""),
			PublicBaseURL: s.get(EnvS3PublicBaseURL, ""),
		},
		LocalAssetDir: s.get(EnvLocalAssetDir, DefaultLocalAssetDir),
		PublicBaseURL: s.get(EnvPublicBaseURL, fmt.Sprintf("http://localhost:%d", port)),

		MaxUploadBytes:    int64(s.getInt(EnvMaxUploadBytes, DefaultMaxUploadBytes)),
		RequestTimeout:    s.getDuration(EnvRequestTimeout, DefaultRequestTimeout),
		RequireAuth:       s.getBool(EnvRequireAuth, false),
		AllowedOrigins:    s.getList(EnvAllowedOrigins, []string{"*"}),
		TrustedProxies:    s.getList(EnvTrustedProxies, nil),
		RateLimitRequests: s.getInt(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   s.getDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		TokenCacheSize:         s.getInt(EnvTokenCacheSize, DefaultTokenCacheSize),
		TokenCacheTTL:          s.getDuration(EnvTokenCacheTTL, DefaultTokenCacheTTL),
		CleanupOrphanedUploads: s.getBool(EnvCleanupOrphans, false),
		UpdateMaxAttempts:      s.getInt(EnvUpdateAttempts, DefaultUpdateAttempts),

		SendGridAPIKey: s.get(EnvSendGridAPIKey, ""),
		MailFrom:       s.get(EnvMailFrom, ""),
	}

	if cfg.ProjectID == "" && len(cfg.FirebaseAdminJSON) > 0 {
		if cfg.ProjectID, err = ServiceAccountProjectID(cfg.FirebaseAdminJSON); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProd || c.Environment == "production"
}

// readConfigFile decodes a flat TOML table whose keys are environment variable names.
func readConfigFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var raw map[string]any
	if err := toml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch v := v.(type) {
		case []any:
			parts := make([]string, len(v))
			for i, p := range v {
				parts[i] = fmt.Sprint(p)
			}
			values[key] = strings.Join(parts, ",")
		case map[string]any:
			return nil, fmt.Errorf("config file %s: key %s must not be a table", path, key)
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// source resolves a setting from the environment, then the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	value, exists := s.file[key]
	return value, exists
}

// get retrieves a setting or returns a default value
func (s source) get(key, defaultValue string) string {
	if value, exists := s.lookup(key); exists {
		return value
	}
	return defaultValue
}

// getInt returns defaultValue when the setting is missing or not an integer
func (s source) getInt(key string, defaultValue int) int {
	value, _ := s.lookup(key)
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

// getDuration returns defaultValue when the setting is missing or not a Go duration
func (s source) getDuration(key string, defaultValue time.Duration) time.Duration {
	value, _ := s.lookup(key)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

func (s source) getBool(key string, defaultValue bool) bool {
	value, _ := s.lookup(key)
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getList splits a comma separated setting, dropping blanks.
func (s source) getList(key string, defaultValue []string) []string {
	value, exists := s.lookup(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
