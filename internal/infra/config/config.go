// Package config loads the API server's environment configuration.
package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the API server.
type Config struct {
	Port string

	// GCP
	ProjectID                string
	FirestoreCredentialsFile string
	ImageBucket              string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Mail
	SendGridAPIKey string
	MailFrom       string

	// Secret Manager names; when set they override the plain env values
	// at Resolve time.
	DBPasswordSecret     string
	SendGridAPIKeySecret string
}

// Load reads environment variables. A .env file is applied first when
// present (local development only; missing files are not an error).
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] .env loaded")
	}

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		ProjectID:                os.Getenv("GCP_PROJECT_ID"),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		ImageBucket:              os.Getenv("PRODUCT_IMAGE_BUCKET"),

		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     getenvDefault("DB_USER", "termstore"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenvDefault("DB_NAME", "termstore"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       os.Getenv("MAIL_FROM"),

		DBPasswordSecret:     os.Getenv("DB_PASSWORD_SECRET"),
		SendGridAPIKeySecret: os.Getenv("SENDGRID_API_KEY_SECRET"),
	}
}

// Resolve fetches configured Secret Manager values. No-op when no secret
// names are set.
func (c *Config) Resolve(ctx context.Context) error {
	if c.DBPasswordSecret == "" && c.SendGridAPIKeySecret == "" {
		return nil
	}
	if c.ProjectID == "" {
		return fmt.Errorf("config: GCP_PROJECT_ID required to resolve secrets")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("config: secret manager client: %w", err)
	}
	defer sm.Close()

	if c.DBPasswordSecret != "" {
		v, err := access(ctx, sm, c.ProjectID, c.DBPasswordSecret)
		if err != nil {
			return err
		}
		c.DBPassword = v
	}
	if c.SendGridAPIKeySecret != "" {
		v, err := access(ctx, sm, c.ProjectID, c.SendGridAPIKeySecret)
		if err != nil {
			return err
		}
		c.SendGridAPIKey = v
	}
	return nil
}

func access(ctx context.Context, sm *secretmanager.Client, projectID, secretID string) (string, error) {
	name := "projects/" + projectID + "/secrets/" + secretID + "/versions/latest"
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("config: access secret %s: %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("config: empty payload for %s", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
