package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{"listen": ":9090", "decode_policy": "tolerant"}`)

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.GetListen() != ":9090" {
		t.Errorf("GetListen() = %q", cfg.GetListen())
	}
	if cfg.GetDecodePolicy() != "tolerant" {
		t.Errorf("GetDecodePolicy() = %q", cfg.GetDecodePolicy())
	}
	// Unset fields fall back to defaults.
	if cfg.GetDBPath() != "perception_data.db" {
		t.Errorf("GetDBPath() = %q", cfg.GetDBPath())
	}
	if cfg.GetReportMaxObjects() != 10000 {
		t.Errorf("GetReportMaxObjects() = %d", cfg.GetReportMaxObjects())
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := writeConfig(t, `{"decode_policy": "lenient"}`)
	if _, err := LoadServerConfig(path); err == nil {
		t.Fatal("LoadServerConfig accepted unknown decode_policy")
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: :9090"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadServerConfig(path); err == nil {
		t.Fatal("LoadServerConfig accepted non-JSON extension")
	}
}

func TestMerge(t *testing.T) {
	base := EmptyServerConfig()
	listen := ":7070"
	policy := "tolerant"
	base.Merge(&ServerConfig{Listen: &listen})
	base.Merge(&ServerConfig{DecodePolicy: &policy})
	base.Merge(nil)

	if base.GetListen() != ":7070" {
		t.Errorf("GetListen() = %q", base.GetListen())
	}
	if base.GetDecodePolicy() != "tolerant" {
		t.Errorf("GetDecodePolicy() = %q", base.GetDecodePolicy())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv with unset var: %v", err)
	}
	if cfg.GetListen() != ":8080" {
		t.Errorf("GetListen() = %q", cfg.GetListen())
	}

	path := writeConfig(t, `{"db_path": "/tmp/rec.db"}`)
	t.Setenv(EnvConfigPath, path)
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.GetDBPath() != "/tmp/rec.db" {
		t.Errorf("GetDBPath() = %q", cfg.GetDBPath())
	}
}
