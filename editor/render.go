package editor

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Classes a page may use to label otherwise anonymous content blocks as
// editable.
var labeledBlockClasses = map[string]bool{
	"hero-title":     true,
	"hero-subtitle":  true,
	"section-title":  true,
	"service-card":   true,
	"portfolio-item": true,
}

var eligibleTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "a": true, "button": true,
}

var insertTemplates = map[string]string{
	"heading":   "<h2>New Heading</h2>",
	"paragraph": "<p>Click to edit this paragraph.</p>",
	"button":    "<button>New Button</button>",
	"image":     `<div class="image-placeholder"></div>`,
	"section":   `<div class="content-section"><h2>New Section</h2><p>Section content here</p></div>`,
	"card":      `<div class="content-card"><h3>Card Title</h3><p>Card content goes here.</p></div>`,
	"form":      `<form><input type="text" placeholder="Your Name"><button type="submit">Submit</button></form>`,
}

// TargetKey derives the stable locator the capture side uses for an
// element: its id, else the first two class names joined by a dot, else the
// upper-cased tag name.
func TargetKey(n *html.Node) string {
	if id := getAttr(n, "id"); id != "" {
		return id
	}
	if class := getAttr(n, "class"); class != "" {
		parts := strings.Fields(class)
		if len(parts) > 2 {
			parts = parts[:2]
		}
		return strings.Join(parts, ".")
	}
	return strings.ToUpper(n.Data)
}

// SelectableKeys parses page content and returns the target keys of every
// eligible element, in document order. Duplicate keys collapse; that is
// fine, the key only needs to merge edits, not be globally unique.
func SelectableKeys(content string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var keys []string
	seen := make(map[string]bool)
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if !eligibleTags[n.Data] && !hasLabeledClass(n) {
			return true
		}
		key := TargetKey(n)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}

// Render applies the change set to the page content, strips all editor
// instrumentation and serializes the result as a full document.
func Render(content string, cs *ChangeSet) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	for _, ch := range cs.Changes() {
		switch ch.Kind {
		case KindInsert:
			applyInsert(doc, ch)
		default:
			applyMutation(doc, ch)
		}
	}

	stripEditorArtifacts(doc)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}
	out := sb.String()
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(out)), "<!doctype") {
		out = "<!DOCTYPE html>\n" + out
	}
	return out, nil
}

func applyMutation(doc *html.Node, ch Change) {
	target := findByKey(doc, ch.TargetKey)
	if target == nil {
		return
	}
	if ch.InnerContent != "" {
		setInnerHTML(target, ch.InnerContent)
	}
	if len(ch.Style) > 0 {
		applyStyle(target, ch.Style)
	}
	if ch.LinkURL != "" && target.Data == "a" {
		setAttr(target, "href", ch.LinkURL)
	}
}

func applyInsert(doc *html.Node, ch Change) {
	body := findTag(doc, "body")
	if body == nil {
		return
	}
	tmpl, ok := insertTemplates[ch.ElementType]
	if !ok {
		return
	}

	wrapper := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	setAttr(wrapper, "data-ts-key", ch.TargetKey)
	setInnerHTML(wrapper, tmpl)
	if ch.InnerContent != "" {
		setInnerHTML(wrapper, ch.InnerContent)
	}
	if len(ch.Style) > 0 {
		applyStyle(wrapper, ch.Style)
	}
	body.AppendChild(wrapper)
}

// stripEditorArtifacts removes everything the capture side injected:
// the edit bar, the editor stylesheet, selection affordance classes and
// change markers.
func stripEditorArtifacts(doc *html.Node) {
	var doomed []*html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if hasClass(n, "ts-edit-bar") || getAttr(n, "id") == "ts-editor-styles" {
			doomed = append(doomed, n)
			return false
		}
		removeClass(n, "ts-selectable")
		removeClass(n, "ts-selected")
		removeAttr(n, "data-ts-changed")
		removeAttr(n, "data-ts-key")
		if n.Data == "body" {
			dropStyleProperty(n, "padding-top")
		}
		return true
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// findByKey locates the first element, in document order, whose derived
// target key matches. Inserted elements are found through their
// data-ts-key marker.
func findByKey(doc *html.Node, key string) *html.Node {
	var found *html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if getAttr(n, "data-ts-key") == key || matchesKey(n, key) {
			found = n
			return false
		}
		return true
	})
	return found
}

func matchesKey(n *html.Node, key string) bool {
	if key == "" {
		return false
	}
	if getAttr(n, "id") == key {
		return true
	}
	if class := getAttr(n, "class"); class != "" {
		parts := strings.Fields(class)
		if len(parts) > 2 {
			parts = parts[:2]
		}
		if strings.Join(parts, ".") == key {
			return true
		}
	}
	return strings.EqualFold(n.Data, key)
}

func hasLabeledClass(n *html.Node) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if labeledBlockClasses[c] {
			return true
		}
	}
	return false
}

// walk visits nodes depth-first; returning false from fn skips the node's
// children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findTag(doc *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return found == nil
	})
	return found
}

func setInnerHTML(n *html.Node, fragment string) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: atom.Lookup([]byte(n.Data)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func removeClass(n *html.Node, class string) {
	current := getAttr(n, "class")
	if current == "" {
		return
	}
	var kept []string
	for _, c := range strings.Fields(current) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// applyStyle merges declarations into the element's style attribute,
// keeping existing declaration order and appending new properties
// deterministically.
func applyStyle(n *html.Node, style map[string]string) {
	type decl struct{ prop, val string }
	var decls []decl
	index := make(map[string]int)

	for _, part := range strings.Split(getAttr(n, "style"), ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		index[prop] = len(decls)
		decls = append(decls, decl{prop, strings.TrimSpace(val)})
	}

	newProps := make([]string, 0, len(style))
	for prop := range style {
		newProps = append(newProps, prop)
	}
	sort.Strings(newProps)

	for _, prop := range newProps {
		if i, ok := index[prop]; ok {
			decls[i].val = style[prop]
		} else {
			index[prop] = len(decls)
			decls = append(decls, decl{prop, style[prop]})
		}
	}

	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.val
	}
	setAttr(n, "style", strings.Join(parts, "; "))
}

func dropStyleProperty(n *html.Node, property string) {
	current := getAttr(n, "style")
	if current == "" {
		return
	}
	var kept []string
	for _, part := range strings.Split(current, ";") {
		prop, _, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(prop) == property {
			continue
		}
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(kept, "; "))
}
