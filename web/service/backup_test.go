package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tridentstudios/sitepanel/database/model"
)

// recordingAudit collects audit calls so the pipeline tests can assert on
// them without a database.
type recordingAudit struct {
	entries []string
}

func (r *recordingAudit) Record(actorEmail, action, details string) {
	r.entries = append(r.entries, actorEmail+"|"+action+"|"+details)
}

func newTestStore(t *testing.T, retention int) (*BackupStore, *recordingAudit) {
	t.Helper()
	root := t.TempDir()
	audit := &recordingAudit{}
	store := NewBackupStore(root, filepath.Join(root, "backups"), retention, audit)
	return store, audit
}

func writeLive(t *testing.T, store *BackupStore, page, content string) {
	t.Helper()
	if err := os.WriteFile(store.LivePath(page), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotNamesAreUnique(t *testing.T) {
	store, _ := newTestStore(t, 10)
	writeLive(t, store, "index.html", "v0")

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		name, err := store.Snapshot("index.html", false, at)
		if err != nil {
			t.Fatal(err)
		}
		if seen[name] {
			t.Fatalf("duplicate backup name within one second: %s", name)
		}
		seen[name] = true
	}
}

func TestOriginalPageName(t *testing.T) {
	store, _ := newTestStore(t, 10)

	tests := []struct {
		filename string
		want     string
	}{
		{"2026-08-30_120000_000001_index.html", "index.html"},
		{"pre-restore_2026-08-30_120000_000002_services.html", "services.html"},
		{"notes.txt", ""},
		{"index.html", ""},
	}
	for _, tc := range tests {
		if got := store.OriginalPageName(tc.filename); got != tc.want {
			t.Errorf("OriginalPageName(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	store, _ := newTestStore(t, 10)
	writeLive(t, store, "index.html", "v0")
	writeLive(t, store, "about.html", "v0")

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var names []string
	for i := 0; i < 3; i++ {
		name, err := store.Snapshot("index.html", false, base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
		// List orders by mtime, so stamp each copy explicitly.
		at := base.Add(time.Duration(i) * time.Second)
		if err := os.Chtimes(filepath.Join(store.backupDir, name), at, at); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Snapshot("about.html", false, base); err != nil {
		t.Fatal(err)
	}

	entries, err := store.List("index.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries for index.html", len(entries))
	}
	if entries[0].Filename != names[2] || entries[2].Filename != names[0] {
		t.Errorf("not newest first: %v", entries)
	}
	for _, e := range entries {
		if e.OriginalPageName != "index.html" {
			t.Errorf("wrong page name on %s: %q", e.Filename, e.OriginalPageName)
		}
	}

	all, err := store.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("got %d entries for all pages", len(all))
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store, _ := newTestStore(t, 3)
	writeLive(t, store, "index.html", "v0")

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		name, err := store.Snapshot("index.html", false, base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
		at := base.Add(time.Duration(i) * time.Second)
		if err := os.Chtimes(filepath.Join(store.backupDir, name), at, at); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Prune("index.html")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed %d, want 2", removed)
	}
	entries, _ := store.List("index.html")
	if len(entries) != 3 {
		t.Errorf("%d entries remain, want 3", len(entries))
	}
}

func TestRestore(t *testing.T) {
	store, audit := newTestStore(t, 10)
	writeLive(t, store, "index.html", "old content")

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	backupName, err := store.Snapshot("index.html", false, at)
	if err != nil {
		t.Fatal(err)
	}
	writeLive(t, store, "index.html", "new content")

	admin := userWithRoles(model.RoleAdmin)
	receipt, err := store.Restore(backupName, admin)
	if err != nil {
		t.Fatal(err)
	}

	live, err := store.ReadLive("index.html")
	if err != nil {
		t.Fatal(err)
	}
	if string(live) != "old content" {
		t.Errorf("live content after restore = %q", live)
	}

	// The pre-restore snapshot holds what was live before, so the restore
	// itself can be undone.
	if receipt.BackupFilename == "" {
		t.Fatal("no pre-restore snapshot recorded")
	}
	pre, err := os.ReadFile(filepath.Join(store.backupDir, receipt.BackupFilename))
	if err != nil {
		t.Fatal(err)
	}
	if string(pre) != "new content" {
		t.Errorf("pre-restore snapshot = %q", pre)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %v", audit.entries)
	}
}

func TestRestoreRequiresAdmin(t *testing.T) {
	store, _ := newTestStore(t, 10)
	writeLive(t, store, "index.html", "v0")
	name, err := store.Snapshot("index.html", false, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	writeLive(t, store, "index.html", "v1")

	for _, roles := range [][]model.Role{{model.RoleWebsiteEditor}, {model.RoleViewer}, {model.RoleArtist}} {
		if _, err := store.Restore(name, userWithRoles(roles...)); !errors.Is(err, ErrForbidden) {
			t.Errorf("restore with roles %v: %v", roles, err)
		}
	}

	live, _ := store.ReadLive("index.html")
	if string(live) != "v1" {
		t.Errorf("denied restore changed live content: %q", live)
	}
}

func TestRestoreUnknownBackup(t *testing.T) {
	store, _ := newTestStore(t, 10)
	admin := userWithRoles(model.RoleAdmin)

	if _, err := store.Restore("2026-01-01_000000_000001_index.html", admin); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("missing file: %v", err)
	}

	// A file that exists but does not carry a backup name is not
	// restorable either.
	if err := os.MkdirAll(store.backupDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.backupDir, "stray.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Restore("stray.html", admin); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("stray file: %v", err)
	}
}

func TestSnapshotPreservesContent(t *testing.T) {
	store, _ := newTestStore(t, 10)
	content := fmt.Sprintf("<!DOCTYPE html><html><body>%s</body></html>", "snapshot me")
	writeLive(t, store, "contact.html", content)

	name, err := store.Snapshot("contact.html", false, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(store.backupDir, name))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("backup content mismatch")
	}
}
