package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// ValidateEnv checks the settings the selected backends need and reports every
// missing one together. ENV_SCHEMA_VERSION is optional but must match when set.
func ValidateEnv(cfg *Config) error {
	if schemaVersion := os.Getenv(EnvSchemaVersion); schemaVersion != "" && schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	require := func(ok bool, name string) {
		if !ok && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}

	switch cfg.DocStore {
	case DocStoreFirestore:
		require(cfg.ProjectID != "", EnvFirebaseAdminJSON+" or "+EnvFirebaseConfig)
	case DocStoreMongo:
		require(cfg.MongoURI != "", EnvMongoURI)
	case DocStoreMemory:
	default:
		return fmt.Errorf("unknown %s %q (want %s, %s or %s)", EnvDocStore, cfg.DocStore, DocStoreFirestore, DocStoreMongo, DocStoreMemory)
	}

	switch cfg.AssetBackend {
	case AssetBackendFirebase:
		require(len(cfg.FirebaseAdminJSON) > 0, EnvFirebaseAdminJSON)
		require(cfg.StorageBucket != "", EnvStorageBucket)
	case AssetBackendS3:
		require(cfg.S3.Bucket != "", EnvS3Bucket)
		require(cfg.S3.Region != "", EnvS3Region)
	case AssetBackendLocal:
		require(cfg.LocalAssetDir != "", EnvLocalAssetDir)
	default:
		return fmt.Errorf("unknown %s %q (want %s, %s or %s)", EnvAssetBackend, cfg.AssetBackend, AssetBackendFirebase, AssetBackendS3, AssetBackendLocal)
	}

	if cfg.SendGridAPIKey != "" {
		require(cfg.MailFrom != "", EnvMailFrom)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and returns warnings for settings
// that work but are unsafe or degraded
func ValidateEnvWithWarnings(cfg *Config) ([]string, error) {
	if err := ValidateEnv(cfg); err != nil {
		return nil, err
	}

	var warnings []string

	if len(cfg.FirebaseAdminJSON) == 0 || cfg.Firebase.APIKey == "" {
		warnings = append(warnings, "FIREBASE_ADMIN_SDK_JSON or FIREBASE_CONFIG apiKey is not set - auth endpoints will fail until configured")
	}

	if cfg.IsProduction() {
		if slices.Contains(cfg.AllowedOrigins, "*") {
			warnings = append(warnings, "CORS_ALLOWED_ORIGINS allows any origin in production")
		}
		if !cfg.RequireAuth {
			warnings = append(warnings, "REQUIRE_AUTH is false in production - resource writes accept an unauthenticated userId")
		}
		if cfg.DocStore == DocStoreMemory {
			warnings = append(warnings, "DOC_STORE=memory in production - data is lost on restart")
		}
		if cfg.AssetBackend == AssetBackendLocal {
			warnings = append(warnings, "ASSET_BACKEND=local in production - uploads live on this instance's disk")
		}
	}

	return warnings, nil
}
