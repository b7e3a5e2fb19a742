package editor

import (
	"errors"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<h1 id="hero">Welcome</h1>
<p class="lead intro">Some text</p>
<div class="service-card">Card</div>
<a href="/old">Link</a>
</body></html>`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(NewDraftStore(t.TempDir()))
	if err := s.Observe("index.html", testPage); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(nil)
	if s.State() != StateIdle {
		t.Fatalf("fresh session state = %v", s.State())
	}

	if err := s.Observe("index.html", testPage); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateObserving {
		t.Fatalf("after observe state = %v", s.State())
	}

	if err := s.Select("hero"); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateElementSelected {
		t.Fatalf("after select state = %v", s.State())
	}

	if err := s.EditContent("Hello there"); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateEditing {
		t.Fatalf("after edit state = %v", s.State())
	}

	s.Deselect()
	if s.State() != StateObserving {
		t.Fatalf("after deselect state = %v", s.State())
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateIdle {
		t.Fatalf("after close state = %v", s.State())
	}
}

func TestSessionErrors(t *testing.T) {
	idle := NewSession(nil)
	if err := idle.Select("hero"); !errors.Is(err, ErrNotObserving) {
		t.Errorf("select while idle: %v", err)
	}
	if err := idle.EditContent("x"); !errors.Is(err, ErrNotObserving) {
		t.Errorf("edit while idle: %v", err)
	}
	if _, err := idle.Insert("heading"); !errors.Is(err, ErrNotObserving) {
		t.Errorf("insert while idle: %v", err)
	}

	s := newTestSession(t)
	if err := s.Select("no-such-element"); !errors.Is(err, ErrNotSelectable) {
		t.Errorf("select unknown target: %v", err)
	}
	if err := s.EditStyle("color", "red"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("edit without selection: %v", err)
	}
	if _, err := s.Insert("marquee"); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("insert unknown type: %v", err)
	}
}

func TestSessionSelectableTargets(t *testing.T) {
	s := newTestSession(t)

	for _, key := range []string{"hero", "lead.intro", "service-card", "A"} {
		if err := s.Select(key); err != nil {
			t.Errorf("select %q: %v", key, err)
		}
	}
}

func TestSessionInsertedElementIsSelectable(t *testing.T) {
	s := newTestSession(t)

	key, err := s.Insert("paragraph")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key, "ts-new-") {
		t.Errorf("generated key %q missing prefix", key)
	}
	if err := s.Select(key); err != nil {
		t.Errorf("select inserted element: %v", err)
	}

	second, err := s.Insert("paragraph")
	if err != nil {
		t.Fatal(err)
	}
	if second == key {
		t.Error("two insertions produced the same key")
	}
}

func TestSessionDraftResume(t *testing.T) {
	drafts := NewDraftStore(t.TempDir())

	first := NewSession(drafts)
	if err := first.Observe("index.html", testPage); err != nil {
		t.Fatal(err)
	}
	if err := first.Select("hero"); err != nil {
		t.Fatal(err)
	}
	if err := first.EditContent("Edited headline"); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := NewSession(drafts)
	if err := second.Observe("index.html", testPage); err != nil {
		t.Fatal(err)
	}
	ch, ok := second.ChangeSet().Get("hero")
	if !ok {
		t.Fatal("draft edit not resumed")
	}
	if ch.InnerContent != "Edited headline" {
		t.Errorf("resumed content = %q", ch.InnerContent)
	}

	if err := second.DiscardDraft(); err != nil {
		t.Fatal(err)
	}
	third := NewSession(drafts)
	if err := third.Observe("index.html", testPage); err != nil {
		t.Fatal(err)
	}
	if !third.ChangeSet().Empty() {
		t.Error("discarded draft still resumed")
	}
}

func TestSessionPublish(t *testing.T) {
	s := newTestSession(t)
	if err := s.Select("hero"); err != nil {
		t.Fatal(err)
	}
	if err := s.EditContent("Published headline"); err != nil {
		t.Fatal(err)
	}
	if err := s.EditStyle("color", "rebeccapurple"); err != nil {
		t.Fatal(err)
	}

	out, err := s.Publish()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Published headline") {
		t.Error("published payload missing content edit")
	}
	if !strings.Contains(out, "color: rebeccapurple") {
		t.Error("published payload missing style edit")
	}

	idle := NewSession(nil)
	if _, err := idle.Publish(); !errors.Is(err, ErrNotObserving) {
		t.Errorf("publish while idle: %v", err)
	}
}
