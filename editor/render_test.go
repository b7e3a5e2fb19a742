package editor

import (
	"reflect"
	"strings"
	"testing"
)

func TestSelectableKeys(t *testing.T) {
	page := `<html><body>
<h1 id="hero">Title</h1>
<p class="lead intro extra">text</p>
<div class="service-card">card</div>
<button>Go</button>
<div class="plain">not selectable</div>
</body></html>`

	keys, err := SelectableKeys(page)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hero", "lead.intro", "service-card", "BUTTON"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestRenderAppliesMutations(t *testing.T) {
	page := `<html><body><h1 id="hero" style="margin: 0">Old</h1><a class="cta main" href="/old">go</a></body></html>`

	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "hero", Kind: KindMutate, InnerContent: "New", Style: map[string]string{"color": "red", "margin": "4px"}})
	cs.Put(Change{TargetKey: "cta.main", Kind: KindMutate, LinkURL: "/new"})

	out, err := Render(page, cs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ">New</h1>") {
		t.Errorf("inner content not replaced:\n%s", out)
	}
	if !strings.Contains(out, "margin: 4px") || !strings.Contains(out, "color: red") {
		t.Errorf("style not merged:\n%s", out)
	}
	if !strings.Contains(out, `href="/new"`) {
		t.Errorf("link url not rewritten:\n%s", out)
	}
}

func TestRenderInsert(t *testing.T) {
	page := `<html><body><p id="only">hi</p></body></html>`

	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "ts-new-abc", Kind: KindInsert, ElementType: "card"})

	out, err := Render(page, cs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "content-card") || !strings.Contains(out, "Card Title") {
		t.Errorf("inserted card template missing:\n%s", out)
	}
	if strings.Contains(out, "data-ts-key") {
		t.Errorf("change marker survived render:\n%s", out)
	}
}

func TestRenderStripsEditorArtifacts(t *testing.T) {
	page := `<html><head><style id="ts-editor-styles">.x{}</style></head>` +
		`<body style="padding-top: 60px; margin: 0">` +
		`<div class="ts-edit-bar"><button>Publish</button></div>` +
		`<h1 id="hero" class="ts-selectable ts-selected big" data-ts-changed="true">T</h1>` +
		`</body></html>`

	out, err := Render(page, NewChangeSet())
	if err != nil {
		t.Fatal(err)
	}

	for _, banned := range []string{"ts-edit-bar", "ts-editor-styles", "ts-selectable", "ts-selected", "data-ts-changed", "padding-top"} {
		if strings.Contains(out, banned) {
			t.Errorf("artifact %q survived render:\n%s", banned, out)
		}
	}
	if !strings.Contains(out, `class="big"`) {
		t.Errorf("unrelated class dropped:\n%s", out)
	}
	if !strings.Contains(out, "margin: 0") {
		t.Errorf("unrelated body style dropped:\n%s", out)
	}
}

func TestRenderEmitsFullDocument(t *testing.T) {
	out, err := Render(`<html><body><p>x</p></body></html>`, NewChangeSet())
	if err != nil {
		t.Fatal(err)
	}
	lower := strings.ToLower(out)
	if !strings.HasPrefix(strings.TrimSpace(lower), "<!doctype html>") {
		t.Errorf("missing doctype:\n%s", out)
	}
	if strings.Count(lower, "<!doctype") != 1 {
		t.Errorf("doctype duplicated:\n%s", out)
	}
}

func TestRenderUnknownTargetIsNoop(t *testing.T) {
	page := `<html><body><p id="only">hi</p></body></html>`
	cs := NewChangeSet()
	cs.Put(Change{TargetKey: "missing", Kind: KindMutate, InnerContent: "boom"})

	out, err := Render(page, cs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ">hi</p>") {
		t.Errorf("unrelated content changed:\n%s", out)
	}
	if strings.Contains(out, "boom") {
		t.Errorf("edit applied to nothing:\n%s", out)
	}
}
