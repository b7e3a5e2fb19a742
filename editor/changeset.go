// Package editor captures in-browser style edits against a live-rendered
// page as an ordered change set, independent of any UI toolkit. A session
// walks Idle -> Observing -> ElementSelected -> Editing and accumulates
// merge-by-key edits that render into one full-page payload at publish time.
package editor

// ChangeKind distinguishes edits to existing elements from newly inserted
// ones.
type ChangeKind string

const (
	KindMutate ChangeKind = "mutate"
	KindInsert ChangeKind = "insert"
)

// Change is a single per-element edit. TargetKey is a stable locator (id,
// class prefix, or tag name) used only to merge edits to the same element;
// it is not guaranteed globally unique across a document.
type Change struct {
	TargetKey    string            `json:"targetKey"`
	Kind         ChangeKind        `json:"kind"`
	InnerContent string            `json:"innerContent"`
	Style        map[string]string `json:"style,omitempty"`
	LinkURL      string            `json:"linkUrl,omitempty"`
	ElementType  string            `json:"elementType,omitempty"`
}

// ChangeSet is the ordered, key-merged log of edits produced by one editing
// session. A later edit to an existing key replaces the earlier entry in
// place rather than appending a duplicate.
type ChangeSet struct {
	changes []Change
	index   map[string]int
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{index: make(map[string]int)}
}

// Put records a change, merging by target key. Style declarations are
// merged per property so a color edit does not wipe an earlier font-size
// edit to the same element.
func (cs *ChangeSet) Put(ch Change) {
	if i, ok := cs.index[ch.TargetKey]; ok {
		prev := cs.changes[i]
		if ch.Kind == KindMutate && prev.Kind == KindInsert {
			// An edit to a freshly inserted element stays an insertion.
			ch.Kind = KindInsert
			ch.ElementType = prev.ElementType
		}
		if ch.InnerContent == "" {
			ch.InnerContent = prev.InnerContent
		}
		if ch.LinkURL == "" {
			ch.LinkURL = prev.LinkURL
		}
		ch.Style = mergeStyle(prev.Style, ch.Style)
		cs.changes[i] = ch
		return
	}
	cs.index[ch.TargetKey] = len(cs.changes)
	cs.changes = append(cs.changes, ch)
}

// Changes returns the edits in capture order.
func (cs *ChangeSet) Changes() []Change {
	out := make([]Change, len(cs.changes))
	copy(out, cs.changes)
	return out
}

func (cs *ChangeSet) Get(targetKey string) (Change, bool) {
	i, ok := cs.index[targetKey]
	if !ok {
		return Change{}, false
	}
	return cs.changes[i], true
}

func (cs *ChangeSet) Len() int { return len(cs.changes) }

func (cs *ChangeSet) Empty() bool { return len(cs.changes) == 0 }

func mergeStyle(prev, next map[string]string) map[string]string {
	if len(prev) == 0 {
		return next
	}
	merged := make(map[string]string, len(prev)+len(next))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range next {
		merged[k] = v
	}
	return merged
}
