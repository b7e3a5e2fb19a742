package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.uber.org/atomic"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/logger"
)

const (
	backupStampFormat = "2006-01-02_150405"
	preRestorePrefix  = "pre-restore_"
)

// backupNameRe strips the generated prefix off a backup filename to recover
// the page it belongs to.
var backupNameRe = regexp.MustCompile(`^(?:pre-restore_)?\d{4}-\d{2}-\d{2}_\d{6}_\d{6}_`)

// BackupEntry describes one retained prior page snapshot.
type BackupEntry struct {
	Filename         string    `json:"filename"`
	Size             int64     `json:"size"`
	Modified         time.Time `json:"modified"`
	OriginalPageName string    `json:"originalPageName"`
}

// BackupStore is the append-only, retention-bounded store of prior page
// snapshots. Filenames encode creation time and page name so entries can be
// listed and matched without a separate index; a process-wide monotonic
// counter plus exclusive creation keeps names unique even when two
// publishes land within the same clock second.
type BackupStore struct {
	webRoot   string
	backupDir string
	retention int

	seq    *atomic.Int64
	access AccessPolicy
	audit  auditRecorder
}

func NewBackupStore(webRoot, backupDir string, retention int, audit auditRecorder) *BackupStore {
	return &BackupStore{
		webRoot:   webRoot,
		backupDir: backupDir,
		retention: retention,
		seq:       atomic.NewInt64(0),
		audit:     audit,
	}
}

// LivePath is the on-disk location of a page's authoritative snapshot.
func (s *BackupStore) LivePath(pageName string) string {
	return filepath.Join(s.webRoot, filepath.Base(pageName))
}

// ReadLive returns the current live content of a page.
func (s *BackupStore) ReadLive(pageName string) ([]byte, error) {
	return os.ReadFile(s.LivePath(pageName))
}

// LiveExists reports whether a prior snapshot exists for the page.
func (s *BackupStore) LiveExists(pageName string) bool {
	_, err := os.Stat(s.LivePath(pageName))
	return err == nil
}

// Snapshot copies the page's current live content into the store as a new
// backup entry and returns its filename. preRestore marks the safety
// snapshot taken right before a restore.
func (s *BackupStore) Snapshot(pageName string, preRestore bool, at time.Time) (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", err
	}

	// The counter disambiguates names within one clock second; O_EXCL
	// still guards against collisions across restarts.
	for attempt := 0; attempt < 5; attempt++ {
		name := s.newBackupName(pageName, preRestore, at)
		err := copyFileExclusive(s.LivePath(pageName), filepath.Join(s.backupDir, name))
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("could not allocate a unique backup name for %s", pageName)
}

func (s *BackupStore) newBackupName(pageName string, preRestore bool, at time.Time) string {
	name := fmt.Sprintf("%s_%06d_%s", at.Format(backupStampFormat), s.seq.Inc(), filepath.Base(pageName))
	if preRestore {
		name = preRestorePrefix + name
	}
	return name
}

// OriginalPageName recovers the page a backup belongs to from its filename.
// An empty result means the filename is not a recognized backup name.
func (s *BackupStore) OriginalPageName(filename string) string {
	stripped := backupNameRe.ReplaceAllString(filename, "")
	if stripped == filename {
		return ""
	}
	return stripped
}

// List returns backup entries, newest first. With a page name only that
// page's entries are returned; empty means all pages.
func (s *BackupStore) List(pageName string) ([]BackupEntry, error) {
	dirEntries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []BackupEntry{}, nil
	} else if err != nil {
		return nil, err
	}

	entries := make([]BackupEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		original := s.OriginalPageName(de.Name())
		if original == "" {
			continue
		}
		if pageName != "" && original != pageName {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, BackupEntry{
			Filename:         de.Name(),
			Size:             info.Size(),
			Modified:         info.ModTime(),
			OriginalPageName: original,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Modified.Equal(entries[j].Modified) {
			return entries[i].Modified.After(entries[j].Modified)
		}
		return entries[i].Filename > entries[j].Filename
	})
	return entries, nil
}

// Restore copies the chosen backup's content over the live page snapshot.
// Admin only. The current live content is snapshotted first so the restore
// itself is reversible.
func (s *BackupStore) Restore(filename string, actor *model.User) (*Receipt, error) {
	if err := s.access.Authorize(actor, ActionRestoreBackup); err != nil {
		return nil, err
	}

	filename = filepath.Base(filename)
	backupPath := filepath.Join(s.backupDir, filename)
	if _, err := os.Stat(backupPath); err != nil {
		return nil, ErrBackupNotFound
	}

	pageName := s.OriginalPageName(filename)
	if pageName == "" {
		return nil, ErrBackupNotFound
	}

	now := time.Now()
	var preRestoreName string
	if s.LiveExists(pageName) {
		name, err := s.Snapshot(pageName, true, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRestoreWriteFailed, err)
		}
		preRestoreName = name
	}

	if err := replaceFile(backupPath, s.LivePath(pageName)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRestoreWriteFailed, err)
	}

	if s.audit != nil {
		email := ""
		if actor != nil {
			email = actor.Email
		}
		s.audit.Record(email, "Restored backup", filename)
	}

	if _, err := s.Prune(pageName); err != nil {
		logger.Warningf("backup prune after restore failed for %s: %v", pageName, err)
	}

	return &Receipt{
		BackupFilename: preRestoreName,
		PageName:       pageName,
		Timestamp:      now,
	}, nil
}

// Prune deletes a page's oldest backups until at most the retention count
// remain, returning how many were removed.
func (s *BackupStore) Prune(pageName string) (int, error) {
	entries, err := s.List(pageName)
	if err != nil {
		return 0, err
	}
	if len(entries) <= s.retention {
		return 0, nil
	}

	removed := 0
	for _, entry := range entries[s.retention:] {
		if err := os.Remove(filepath.Join(s.backupDir, entry.Filename)); err != nil {
			logger.Warningf("failed to prune backup %s: %v", entry.Filename, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// copyFileExclusive copies src to a destination that must not already
// exist.
func copyFileExclusive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// replaceFile writes src's content to dst via a temporary file and rename,
// so a crash mid-write never leaves a half-written live page.
func replaceFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data)
}

func writeFileAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
