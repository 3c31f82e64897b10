package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef"

// clearEnv blanks every variable ParseFlags reads. Empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "TOKEN_SECRET", "TOKEN_TTL",
		"AI_EDIT_LATENCY", "AI_EDIT_TIMEOUT", "MAX_UPLOAD_BYTES", "MAX_IMAGE_PIXELS",
		"SESSION_IDLE_TIMEOUT", "VIRTUAL_CAMERA", "TIPPER_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("TOKEN_SECRET", testSecret)
	t.Setenv("AI_EDIT_LATENCY", "250ms")
	t.Setenv("VIRTUAL_CAMERA", "true")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.AIEditLatency != 250*time.Millisecond {
		t.Errorf("expected 250ms latency, got %v", cfg.AIEditLatency)
	}
	if !cfg.VirtualCamera {
		t.Error("expected virtual camera enabled")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("VIRTUAL_CAMERA", "true")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-token-secret", testSecret, "-virtual-camera=false", "-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.VirtualCamera {
		t.Error("explicit -virtual-camera=false should win over env")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-token-secret", testSecret, "-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		Port:               DefaultPort,
		DatabaseURL:        "file:test.db",
		DatabaseType:       DefaultDatabaseType,
		TokenSecret:        testSecret,
		TokenTTL:           DefaultTokenTTL,
		AIEditLatency:      DefaultAIEditLatency,
		AIEditTimeout:      DefaultAIEditTimeout,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		MaxImagePixels:     DefaultMaxImagePixels,
		SessionIdleTimeout: DefaultSessionIdleTimeout,
	}
	if cfg != want {
		t.Errorf("got %+v\nwant %+v", cfg, want)
	}
}

func TestParseFlags_YAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "tipper.yaml")
	yaml := "port: 7000\ndatabase_url: file:yaml.db\ntoken_secret: " + testSecret + "\nsession_idle_timeout: 5m\nmax_upload_bytes: 1024\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"-c", path, "-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	// env beats file, file beats defaults
	if cfg.Port != 7100 {
		t.Errorf("expected env port 7100, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:yaml.db" || cfg.SessionIdleTimeout != 5*time.Minute || cfg.MaxUploadBytes != 1024 {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DATABASE_URL=file:dotenv.db\nTOKEN_SECRET="+testSecret+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv skips variables that exist, even empty ones.
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("TOKEN_SECRET")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:dotenv.db" {
		t.Errorf("expected .env database URL, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"missing database", []string{"-token-secret", testSecret}, nil, "database URL required"},
		{"missing secret", []string{"-d", "x"}, nil, "TOKEN_SECRET required"},
		{"short secret", []string{"-d", "x", "-token-secret", "short"}, nil, "at least"},
		{"bad type", []string{"-d", "x", "-token-secret", testSecret, "-t", "mysql"}, nil, "unsupported database type"},
		{"bad port env", []string{"-d", "x", "-token-secret", testSecret}, map[string]string{"PORT": "abc"}, "invalid PORT"},
		{"bad duration env", []string{"-d", "x", "-token-secret", testSecret}, map[string]string{"TOKEN_TTL": "soon"}, "invalid TOKEN_TTL"},
		{"missing config file", []string{"-c", "/nonexistent/tipper.yaml"}, nil, "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(append(tt.args, "-env-file", ""))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
