package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Policy carries the site publishing policy: which pages may be edited, how
// many backups to retain per page, and how long reset tokens live. These are
// configuration, not hard structure; an optional TOML file overrides the
// defaults.
type Policy struct {
	AllowedPages    []string      `toml:"allowed_pages"`
	BackupRetention int           `toml:"backup_retention"`
	ResetTokenTTL   time.Duration `toml:"reset_token_ttl"`
}

func defaultPolicy() Policy {
	return Policy{
		AllowedPages: []string{
			"index.html",
			"artists.html",
			"socials.html",
			"profile.html",
			"dashboard.html",
			"admin-panel.html",
			"editor.html",
			"artist-editor.html",
			"login.html",
			"privacy-policy.html",
			"terms-of-service.html",
		},
		BackupRetention: 10,
		ResetTokenTTL:   time.Hour,
	}
}

// LoadPolicy reads the policy file at GetPolicyPath. A missing file is not
// an error; defaults apply. Zero or negative values in the file fall back to
// the defaults as well.
func LoadPolicy() (Policy, error) {
	policy := defaultPolicy()

	data, err := os.ReadFile(GetPolicyPath())
	if os.IsNotExist(err) {
		return policy, nil
	} else if err != nil {
		return policy, err
	}

	var fromFile Policy
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return policy, err
	}

	if len(fromFile.AllowedPages) > 0 {
		policy.AllowedPages = fromFile.AllowedPages
	}
	if fromFile.BackupRetention > 0 {
		policy.BackupRetention = fromFile.BackupRetention
	}
	if fromFile.ResetTokenTTL > 0 {
		policy.ResetTokenTTL = fromFile.ResetTokenTTL
	}
	return policy, nil
}

// PageAllowed reports whether name is on the closed allow-list of editable
// pages.
func (p Policy) PageAllowed(name string) bool {
	for _, page := range p.AllowedPages {
		if page == name {
			return true
		}
	}
	return false
}
