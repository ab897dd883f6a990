package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := NewConfigManager().GetConfig()

	if config.Server.Port != 5001 {
		t.Errorf("port = %d, want 5001", config.Server.Port)
	}
	if config.Storage.UserFilesDir != "./userfiles" {
		t.Errorf("userfiles dir = %q", config.Storage.UserFilesDir)
	}
	if config.Storage.CatalogPath != "./data/uploads.db" {
		t.Errorf("catalog path = %q", config.Storage.CatalogPath)
	}
	if config.AI.Endpoint != "http://localhost:11434" {
		t.Errorf("ai endpoint = %q", config.AI.Endpoint)
	}
	if config.Logging.Level != "info" {
		t.Errorf("log level = %q", config.Logging.Level)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
storage:
  models_dir: /var/lib/models
ai:
  model: custom-model
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManager()
	if err := cm.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	config := cm.GetConfig()
	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", config.Server.Port)
	}
	if config.Storage.ModelsDir != "/var/lib/models" {
		t.Errorf("models dir = %q", config.Storage.ModelsDir)
	}
	if config.AI.Model != "custom-model" {
		t.Errorf("ai model = %q", config.AI.Model)
	}
	// Unset values keep their defaults.
	if config.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q", config.Server.Host)
	}
	if config.Storage.UserFilesDir != "./userfiles" {
		t.Errorf("userfiles dir = %q", config.Storage.UserFilesDir)
	}
}

func TestLoadFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"server": {"port": 9090}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManager()
	if err := cm.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cm.GetConfig().Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cm.GetConfig().Server.Port)
	}
}

func TestLoadFromFileRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 99999\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := NewConfigManager().LoadFromFile(path); err == nil {
				t.Fatal("expected invalid configuration to fail")
			}
		})
	}
}

func TestLoadFromFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("port = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewConfigManager().LoadFromFile(path); err == nil {
		t.Fatal("expected unsupported format to fail")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NUU_HOST", "127.0.0.1")
	t.Setenv("NUU_PORT", "6001")
	t.Setenv("NUU_USERFILES_DIR", "/tmp/uploads")
	t.Setenv("NUU_AI_ENDPOINT", "http://ai.internal:11434")

	cm := NewConfigManager()
	if err := cm.LoadFromEnvironment(); err != nil {
		t.Fatalf("LoadFromEnvironment failed: %v", err)
	}

	config := cm.GetConfig()
	if config.Server.Host != "127.0.0.1" || config.Server.Port != 6001 {
		t.Errorf("server = %+v", config.Server)
	}
	if config.Storage.UserFilesDir != "/tmp/uploads" {
		t.Errorf("userfiles dir = %q", config.Storage.UserFilesDir)
	}
	if config.AI.Endpoint != "http://ai.internal:11434" {
		t.Errorf("ai endpoint = %q", config.AI.Endpoint)
	}
}

func TestGetConfigReturnsCopy(t *testing.T) {
	cm := NewConfigManager()
	first := cm.GetConfig()
	first.Server.Port = 1

	if cm.GetConfig().Server.Port == 1 {
		t.Fatal("mutating the returned config changed the manager's state")
	}
}
