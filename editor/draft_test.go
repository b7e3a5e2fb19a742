package editor

import (
	"testing"
)

func TestDraftStoreRoundTrip(t *testing.T) {
	store := NewDraftStore(t.TempDir())

	if _, ok, err := store.Load("index.html"); err != nil || ok {
		t.Fatalf("fresh store load = ok:%v err:%v", ok, err)
	}

	changes := []Change{
		{TargetKey: "hero", Kind: KindMutate, InnerContent: "Hi", Style: map[string]string{"color": "red"}},
		{TargetKey: "ts-new-1", Kind: KindInsert, ElementType: "card"},
	}
	if err := store.Save("index.html", changes); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := store.Load("index.html")
	if err != nil || !ok {
		t.Fatalf("load = ok:%v err:%v", ok, err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d changes", len(loaded))
	}
	if loaded[0].TargetKey != "hero" || loaded[0].Style["color"] != "red" {
		t.Errorf("first change mangled: %+v", loaded[0])
	}
	if loaded[1].Kind != KindInsert || loaded[1].ElementType != "card" {
		t.Errorf("second change mangled: %+v", loaded[1])
	}
}

func TestDraftStoreDelete(t *testing.T) {
	store := NewDraftStore(t.TempDir())

	if err := store.Delete("never-saved.html"); err != nil {
		t.Errorf("deleting a missing draft: %v", err)
	}

	if err := store.Save("about.html", []Change{{TargetKey: "a", Kind: KindMutate}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("about.html"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Load("about.html"); ok {
		t.Error("draft still loads after delete")
	}
}

func TestDraftStoreSanitizesPageName(t *testing.T) {
	store := NewDraftStore(t.TempDir())

	if err := store.Save("../../etc/passwd", []Change{{TargetKey: "a", Kind: KindMutate}}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := store.Load("../../etc/passwd"); err != nil || !ok {
		t.Fatalf("sanitized draft not found: ok:%v err:%v", ok, err)
	}
}
