package editor

import (
	"reflect"
	"testing"
)

func TestChangeSetMergesByKey(t *testing.T) {
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "hero-title", Kind: KindMutate, InnerContent: "Hello"})
	cs.Put(Change{TargetKey: "hero-title", Kind: KindMutate, Style: map[string]string{"color": "red"}})

	if cs.Len() != 1 {
		t.Fatalf("expected 1 merged change, got %d", cs.Len())
	}
	ch, ok := cs.Get("hero-title")
	if !ok {
		t.Fatal("merged change not found")
	}
	if ch.InnerContent != "Hello" {
		t.Errorf("content edit lost in merge: %q", ch.InnerContent)
	}
	if ch.Style["color"] != "red" {
		t.Errorf("style edit lost in merge: %v", ch.Style)
	}
}

func TestChangeSetStyleMergePerProperty(t *testing.T) {
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "k", Kind: KindMutate, Style: map[string]string{"font-size": "20px"}})
	cs.Put(Change{TargetKey: "k", Kind: KindMutate, Style: map[string]string{"color": "blue"}})
	cs.Put(Change{TargetKey: "k", Kind: KindMutate, Style: map[string]string{"color": "green"}})

	ch, _ := cs.Get("k")
	want := map[string]string{"font-size": "20px", "color": "green"}
	if !reflect.DeepEqual(ch.Style, want) {
		t.Errorf("style merge mismatch: got %v, want %v", ch.Style, want)
	}
}

func TestChangeSetInsertStaysInsert(t *testing.T) {
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "ts-new-1", Kind: KindInsert, ElementType: "heading"})
	cs.Put(Change{TargetKey: "ts-new-1", Kind: KindMutate, InnerContent: "Edited heading"})

	ch, _ := cs.Get("ts-new-1")
	if ch.Kind != KindInsert {
		t.Errorf("edit to inserted element changed kind to %q", ch.Kind)
	}
	if ch.ElementType != "heading" {
		t.Errorf("element type lost: %q", ch.ElementType)
	}
	if ch.InnerContent != "Edited heading" {
		t.Errorf("content edit lost: %q", ch.InnerContent)
	}
}

func TestChangeSetKeepsCaptureOrder(t *testing.T) {
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "a", Kind: KindMutate, InnerContent: "1"})
	cs.Put(Change{TargetKey: "b", Kind: KindMutate, InnerContent: "2"})
	cs.Put(Change{TargetKey: "a", Kind: KindMutate, InnerContent: "3"})
	cs.Put(Change{TargetKey: "c", Kind: KindMutate, InnerContent: "4"})

	got := cs.Changes()
	keys := make([]string, len(got))
	for i, ch := range got {
		keys[i] = ch.TargetKey
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("order mismatch: got %v, want %v", keys, want)
	}
	if got[0].InnerContent != "3" {
		t.Errorf("re-edit did not replace in place: %q", got[0].InnerContent)
	}
}

func TestChangeSetChangesReturnsCopy(t *testing.T) {
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "a", Kind: KindMutate, InnerContent: "1"})

	out := cs.Changes()
	out[0].InnerContent = "mutated"

	ch, _ := cs.Get("a")
	if ch.InnerContent != "1" {
		t.Error("Changes() leaked internal slice")
	}
}
