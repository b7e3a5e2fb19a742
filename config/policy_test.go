package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPolicyDefaults(t *testing.T) {
	t.Setenv("SP_POLICY_FILE", filepath.Join(t.TempDir(), "does-not-exist.toml"))

	policy, err := LoadPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if len(policy.AllowedPages) != 11 {
		t.Errorf("default allow-list has %d pages", len(policy.AllowedPages))
	}
	if policy.BackupRetention != 10 {
		t.Errorf("default retention = %d", policy.BackupRetention)
	}
	if policy.ResetTokenTTL != time.Hour {
		t.Errorf("default token ttl = %v", policy.ResetTokenTTL)
	}
}

func TestLoadPolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.toml")
	content := `allowed_pages = ["index.html", "landing.html"]
backup_retention = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SP_POLICY_FILE", path)

	policy, err := LoadPolicy()
	if err != nil {
		t.Fatal(err)
	}
	if len(policy.AllowedPages) != 2 || policy.AllowedPages[1] != "landing.html" {
		t.Errorf("allow-list = %v", policy.AllowedPages)
	}
	if policy.BackupRetention != 5 {
		t.Errorf("retention = %d", policy.BackupRetention)
	}
	// Unset values keep their defaults.
	if policy.ResetTokenTTL != time.Hour {
		t.Errorf("token ttl = %v", policy.ResetTokenTTL)
	}
}

func TestPageAllowed(t *testing.T) {
	policy := Policy{AllowedPages: []string{"index.html", "artists.html"}}

	tests := []struct {
		name string
		want bool
	}{
		{"index.html", true},
		{"artists.html", true},
		{"secret.html", false},
		{"", false},
		{"../index.html", false},
		{"INDEX.HTML", false},
	}
	for _, tc := range tests {
		if got := policy.PageAllowed(tc.name); got != tc.want {
			t.Errorf("PageAllowed(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
