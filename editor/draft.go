package editor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// DraftStore keeps flushed change sets on disk, one file per page, so an
// interrupted editing session can pick up where it left off.
type DraftStore struct {
	dir string
}

func NewDraftStore(dir string) *DraftStore {
	return &DraftStore{dir: dir}
}

func (d *DraftStore) path(pageName string) string {
	// Page names come from a closed allow-list, but never trust them as
	// path components.
	safe := strings.ReplaceAll(filepath.Base(pageName), string(os.PathSeparator), "_")
	return filepath.Join(d.dir, safe+".draft.json")
}

// Save writes the change set for a page, replacing any previous draft.
func (d *DraftStore) Save(pageName string, changes []Change) error {
	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return err
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	return os.WriteFile(d.path(pageName), data, 0o640)
}

// Load returns the draft for a page, if one exists.
func (d *DraftStore) Load(pageName string) ([]Change, bool, error) {
	data, err := os.ReadFile(d.path(pageName))
	if os.IsNotExist(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	var changes []Change
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, false, err
	}
	return changes, true, nil
}

// Delete removes the draft for a page. Deleting a missing draft is not an
// error.
func (d *DraftStore) Delete(pageName string) error {
	err := os.Remove(d.path(pageName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
