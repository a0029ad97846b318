// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.StorageDriver != "sqlite" || cfg.DatabaseURL != "dzmatch.db" {
		t.Errorf("expected sqlite on dzmatch.db, got %s %s", cfg.StorageDriver, cfg.DatabaseURL)
	}
	if cfg.SheetRange != "Feuille 1!A:E" {
		t.Errorf("unexpected sheet range %q", cfg.SheetRange)
	}
	if cfg.StorageRetries != 3 || cfg.StorageRetryDelay != 200*time.Millisecond {
		t.Errorf("unexpected retry policy %d/%s", cfg.StorageRetries, cfg.StorageRetryDelay)
	}
	if cfg.ArchiveDriver != "none" {
		t.Errorf("expected archive none, got %s", cfg.ArchiveDriver)
	}
	if cfg.AdminKeySalt != "" {
		t.Error("admin salt should be empty by default")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("STORAGE_DRIVER", "postgres")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("STORAGE_RETRIES", "5")
	os.Setenv("STORAGE_RETRY_DELAY", "1s")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database URL %q", cfg.DatabaseURL)
	}
	if cfg.StorageRetries != 5 || cfg.StorageRetryDelay != time.Second {
		t.Errorf("unexpected retry policy %d/%s", cfg.StorageRetries, cfg.StorageRetryDelay)
	}
	if cfg.AdminKeySalt != "test-salt" {
		t.Errorf("unexpected admin salt %q", cfg.AdminKeySalt)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("STORAGE_DRIVER", "xlsx")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-s", "sqlite", "-d", "file:test.db", "-admin-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StorageDriver != "sqlite" {
		t.Errorf("CLI should override env: expected sqlite, got %s", cfg.StorageDriver)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"unknown driver", nil, []string{"-s", "mongo"}},
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres"}, nil},
		{"sheets without id", nil, []string{"-s", "sheets"}},
		{"bad retries", map[string]string{"STORAGE_RETRIES": "0"}, nil},
		{"bad delay", map[string]string{"STORAGE_RETRY_DELAY": "soon"}, nil},
		{"unknown archive", map[string]string{"ARCHIVE_DRIVER": "ftp"}, nil},
		{"s3 without bucket", nil, []string{"-archive", "s3"}},
		{"bad path style", map[string]string{"ARCHIVE_S3_PATH_STYLE": "maybe"}, nil},
		{"unknown flag", nil, []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=7000\nADMIN_KEY_SALT=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Setenv("ADMIN_KEY_SALT", "from-env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 7000 {
		t.Errorf("expected port from .env, got %d", cfg.Port)
	}
	if cfg.AdminKeySalt != "from-env" {
		t.Errorf("existing env should win, got %q", cfg.AdminKeySalt)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}
