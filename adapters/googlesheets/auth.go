package googlesheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// NewWithJSONKeyFile creates a new SheetsAdapter using a JSON key file
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string) (*SheetsAdapter, error) {
	// If jsonPath is empty, try GOOGLE_APPLICATION_CREDENTIALS env var
	if jsonPath == "" {
		jsonPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if jsonPath == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON key file: %w", err)
	}

	return NewWithJSONKeyData(ctx, config, jsonData)
}

// NewWithJSONKeyData creates a new SheetsAdapter using JSON key data
func NewWithJSONKeyData(ctx context.Context, config Config, jsonData []byte) (*SheetsAdapter, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonData, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return NewSheetsAdapter(ctx, config, option.WithCredentials(creds))
}

// NewWithServiceAccountKey creates a new SheetsAdapter using email and private key
func NewWithServiceAccountKey(ctx context.Context, config Config, email string, privateKey string) (*SheetsAdapter, error) {
	jwtConfig := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	tokenSource := jwtConfig.TokenSource(ctx)

	return NewSheetsAdapter(ctx, config, option.WithTokenSource(tokenSource))
}

// NewWithDefaultCredentials creates a new SheetsAdapter using Application Default Credentials
func NewWithDefaultCredentials(ctx context.Context, config Config) (*SheetsAdapter, error) {
	// Uses GOOGLE_APPLICATION_CREDENTIALS, gcloud application-default
	// credentials, or the GCE metadata service, in that order.
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}

	return NewSheetsAdapter(ctx, config, option.WithTokenSource(tokenSource))
}

// ParseServiceAccountJSON parses a service account JSON file or data
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	return &key, nil
}

// TokenSource creates an oauth2.TokenSource from a parsed service
// account key
func (k *ServiceAccountKey) TokenSource(ctx context.Context) oauth2.TokenSource {
	jwtConfig := &jwt.Config{
		Email:      k.ClientEmail,
		PrivateKey: []byte(k.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return jwtConfig.TokenSource(ctx)
}
