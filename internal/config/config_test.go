package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const baseConfig = `
app:
  name: mentorhours
  environment: development
  port: 8080
database:
  driver: sqlite
  filename: data/mentorhours.db
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(baseConfig))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Source.Kind != SourceSQLite {
		t.Fatalf("source kind = %q, want sqlite", cfg.Source.Kind)
	}
	if cfg.Source.Timeout() != 5*time.Second {
		t.Fatalf("source timeout = %v", cfg.Source.Timeout())
	}
	if cfg.Digest.Cron != "0 7 * * 1" {
		t.Fatalf("digest cron = %q", cfg.Digest.Cron)
	}
	if cfg.Digest.Subject == "" {
		t.Fatalf("digest subject not defaulted")
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{
			name:    "http_source_without_url",
			extra:   "source:\n  kind: http\n",
			wantErr: "base_url is required",
		},
		{
			name:    "unknown_source",
			extra:   "source:\n  kind: carrier-pigeon\n",
			wantErr: "unsupported source kind",
		},
		{
			name:    "digest_without_sender",
			extra:   "digest:\n  enabled: true\n",
			wantErr: "digest sender is required",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(baseConfig + test.extra))
			if err == nil {
				t.Fatalf("expected error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("error = %v, want %q", err, test.wantErr)
			}
		})
	}
}

func TestParseDigestCredentialsFromEnv(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Parse([]byte(baseConfig + "digest:\n  enabled: true\n  sender: mentors@example.com\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.AWS.Region != "eu-west-1" || cfg.AWS.AccessKeyID != "AKIDEXAMPLE" {
		t.Fatalf("aws config = %+v", cfg.AWS)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(baseConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AWS_REGION=ap-south-1\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("AWS_REGION", "")
	os.Unsetenv("AWS_REGION")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.AWS.Region != "ap-south-1" {
		t.Fatalf("region = %q, want value from .env", cfg.AWS.Region)
	}
}

func TestParseSecretKeyFromEnv(t *testing.T) {
	t.Setenv("APP_SECRET_KEY", "session-signing-key")

	cfg, err := Parse([]byte(baseConfig))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.App.SecretKey != "session-signing-key" {
		t.Fatalf("secret key = %q, want value from APP_SECRET_KEY", cfg.App.SecretKey)
	}
}
