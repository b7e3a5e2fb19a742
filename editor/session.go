package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// State is the capture session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateObserving
	StateElementSelected
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateObserving:
		return "observing"
	case StateElementSelected:
		return "element-selected"
	case StateEditing:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNotObserving   = errors.New("editor: no page under observation")
	ErrNoSelection    = errors.New("editor: no element selected")
	ErrNotSelectable  = errors.New("editor: target is not a selectable element")
	ErrUnknownElement = errors.New("editor: unknown element type")
)

// Insertable element types the sidebar offers.
var insertableTypes = map[string]bool{
	"heading":   true,
	"paragraph": true,
	"button":    true,
	"image":     true,
	"section":   true,
	"card":      true,
	"form":      true,
}

// Session captures edits against one target page. It processes one user
// interaction at a time; none of its operations block.
type Session struct {
	drafts *DraftStore

	state    State
	page     string
	content  string
	selected string

	selectable map[string]bool
	inserted   map[string]bool
	changes    *ChangeSet
}

func NewSession(drafts *DraftStore) *Session {
	return &Session{
		drafts:  drafts,
		state:   StateIdle,
		changes: NewChangeSet(),
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Page() string { return s.page }

// ChangeSet exposes the accumulated edits, mainly for flushing and tests.
func (s *Session) ChangeSet() *ChangeSet { return s.changes }

// Observe enters edit mode on a page. Every eligible element of the content
// becomes selectable. A draft left by an interrupted session on the same
// page is resumed, so its pending edits stay intact.
func (s *Session) Observe(pageName, content string) error {
	keys, err := SelectableKeys(content)
	if err != nil {
		return fmt.Errorf("editor: observe %s: %w", pageName, err)
	}

	s.page = pageName
	s.content = content
	s.selected = ""
	s.inserted = make(map[string]bool)
	s.selectable = make(map[string]bool, len(keys))
	for _, k := range keys {
		s.selectable[k] = true
	}

	s.changes = NewChangeSet()
	if s.drafts != nil {
		if draft, ok, err := s.drafts.Load(pageName); err == nil && ok {
			for _, ch := range draft {
				s.changes.Put(ch)
				if ch.Kind == KindInsert {
					s.inserted[ch.TargetKey] = true
				}
			}
		}
	}

	s.state = StateObserving
	return nil
}

// Select picks an element by its target key and opens the property surface
// for it.
func (s *Session) Select(targetKey string) error {
	if s.state == StateIdle {
		return ErrNotObserving
	}
	if !s.selectable[targetKey] && !s.inserted[targetKey] {
		return ErrNotSelectable
	}
	s.selected = targetKey
	s.state = StateElementSelected
	return nil
}

// EditContent replaces the selected element's raw inner content.
func (s *Session) EditContent(innerContent string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	s.changes.Put(Change{
		TargetKey:    s.selected,
		Kind:         KindMutate,
		InnerContent: innerContent,
	})
	s.state = StateEditing
	return nil
}

// EditStyle records a single style declaration (color, background-color,
// font-size, padding) for the selected element.
func (s *Session) EditStyle(property, value string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	s.changes.Put(Change{
		TargetKey: s.selected,
		Kind:      KindMutate,
		Style:     map[string]string{property: value},
	})
	s.state = StateEditing
	return nil
}

// SetLinkURL changes the destination URL of the selected link element.
func (s *Session) SetLinkURL(url string) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	s.changes.Put(Change{
		TargetKey: s.selected,
		Kind:      KindMutate,
		LinkURL:   url,
	})
	s.state = StateEditing
	return nil
}

// Insert creates a new element of the given type with a generated unique
// key and appends it to the change set as an insertion.
func (s *Session) Insert(elementType string) (string, error) {
	if s.state == StateIdle {
		return "", ErrNotObserving
	}
	if !insertableTypes[elementType] {
		return "", ErrUnknownElement
	}
	key := "ts-new-" + uuid.NewString()
	s.changes.Put(Change{
		TargetKey:   key,
		Kind:        KindInsert,
		ElementType: elementType,
	})
	s.inserted[key] = true
	return key, nil
}

// Deselect drops the current selection without leaving edit mode.
func (s *Session) Deselect() {
	if s.state == StateElementSelected || s.state == StateEditing {
		s.selected = ""
		s.state = StateObserving
	}
}

// Flush persists the pending change set to the draft store so an
// interrupted session can resume.
func (s *Session) Flush() error {
	if s.state == StateIdle || s.drafts == nil {
		return nil
	}
	return s.drafts.Save(s.page, s.changes.Changes())
}

// Close leaves the session, flushing pending edits first.
func (s *Session) Close() error {
	err := s.Flush()
	s.state = StateIdle
	s.selected = ""
	return err
}

// Publish renders the change set onto the last-fetched page content, strips
// all editor instrumentation and returns the result as one opaque full-page
// payload. The pending edits are flushed beforehand so a failed upload
// loses no work.
func (s *Session) Publish() (string, error) {
	if s.state == StateIdle {
		return "", ErrNotObserving
	}
	if err := s.Flush(); err != nil {
		return "", err
	}
	return Render(s.content, s.changes)
}

// DiscardDraft removes the stored draft after the server confirmed the
// publish.
func (s *Session) DiscardDraft() error {
	if s.drafts == nil || s.page == "" {
		return nil
	}
	return s.drafts.Delete(s.page)
}

func (s *Session) requireSelection() error {
	switch s.state {
	case StateIdle:
		return ErrNotObserving
	case StateObserving:
		return ErrNoSelection
	}
	return nil
}
