package config

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2/google"
)

// FirebaseClientConfig is the web SDK config object the dashboard is deployed with.
type FirebaseClientConfig struct {
	APIKey        string `json:"apiKey"`
	AuthDomain    string `json:"authDomain"`
	ProjectID     string `json:"projectId"`
	StorageBucket string `json:"storageBucket"`
}

// ParseFirebaseConfig decodes FIREBASE_CONFIG. An empty value yields the zero config.
func ParseFirebaseConfig(raw string) (FirebaseClientConfig, error) {
	var cfg FirebaseClientConfig
	if raw == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid FIREBASE_CONFIG: %w", err)
	}
	return cfg, nil
}

// ServiceAccountProjectID reads the project id out of a service account key.
// The key is only parsed; no token is fetched.
func ServiceAccountProjectID(credentialsJSON []byte) (string, error) {
	creds, err := google.CredentialsFromJSON(context.Background(), credentialsJSON)
	if err != nil {
		return "", fmt.Errorf("invalid FIREBASE_ADMIN_SDK_JSON: %w", err)
	}
	return creds.ProjectID, nil
}
