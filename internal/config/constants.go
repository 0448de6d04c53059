package config

import "time"

// Environment variable names
const (
	EnvConfigFile        = "CONFIG_FILE"
	EnvSchemaVersion     = "ENV_SCHEMA_VERSION"
	EnvPort              = "PORT"
	EnvEnvironment       = "ENVIRONMENT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvServiceName       = "SERVICE_NAME"
	EnvVersion           = "VERSION"
	EnvFirebaseAdminJSON = "FIREBASE_ADMIN_SDK_JSON"
	EnvFirebaseConfig    = "FIREBASE_CONFIG"
	EnvDocStore          = "DOC_STORE"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabase     = "MONGO_DATABASE"
	EnvAssetBackend      = "ASSET_BACKEND"
	EnvStorageBucket     = "STORAGE_BUCKET"
	EnvS3Bucket          = "S3_BUCKET"
	EnvS3Region          = "S3_REGION"
	EnvS3Endpoint        = "S3_ENDPOINT"
	EnvS3AccessKey       = "S3_ACCESS_KEY"
	EnvS3SecretKey       = "S3_SECRET_KEY"
	EnvS3PublicBaseURL   = "S3_PUBLIC_BASE_URL"
	EnvLocalAssetDir     = "LOCAL_ASSET_DIR"
	EnvPublicBaseURL     = "PUBLIC_BASE_URL"
	EnvMaxUploadBytes    = "MAX_UPLOAD_BYTES"
	EnvRequestTimeout    = "REQUEST_TIMEOUT"
	EnvRequireAuth       = "REQUIRE_AUTH"
	EnvAllowedOrigins    = "CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies    = "TRUSTED_PROXIES"
	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvTokenCacheSize    = "TOKEN_CACHE_SIZE"
	EnvTokenCacheTTL     = "TOKEN_CACHE_TTL"
	EnvCleanupOrphans    = "CLEANUP_ORPHANED_UPLOADS"
	EnvUpdateAttempts    = "UPDATE_MAX_ATTEMPTS"
	EnvSendGridAPIKey    = "SENDGRID_API_KEY"
	EnvMailFrom          = "MAIL_FROM"
)

// Document store backends
const (
	DocStoreFirestore = "firestore"
	DocStoreMongo     = "mongo"
	DocStoreMemory    = "memory"
)

// Asset backends
const (
	AssetBackendFirebase = "firebase"
	AssetBackendS3       = "s3"
	AssetBackendLocal    = "local"
)

// Environments
const (
	EnvironmentDev  = "dev"
	EnvironmentProd = "prod"
)

// Defaults
const (
	DefaultPort              = "8080"
	DefaultEnvironment       = EnvironmentDev
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultServiceName       = "adventure-admin"
	DefaultVersion           = "dev"
	DefaultMongoDatabase     = "adventure_admin"
	DefaultLocalAssetDir     = "./uploads"
	DefaultMaxUploadBytes    = 10 << 20
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRateLimitRequests = 1000
	DefaultRateLimitWindow   = 5 * time.Minute
	DefaultTokenCacheSize    = 1024
	DefaultTokenCacheTTL     = 5 * time.Minute
	DefaultUpdateAttempts    = 3
)
