// Package dragdrop models a drag gesture as a tagged payload passed from a
// source to a target. It has no notion of pointers, DOM events or rendering:
// callers drive a Gesture with Begin, Enter, Leave, Drop and Cancel.
package dragdrop

import (
	"errors"
	"sync"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
)

// Tag identifies what a payload carries. Targets accept payloads by tag.
type Tag string

const TagProperty Tag = "PROPERTY"

var ErrNoActiveGesture = errors.New("no drag gesture in progress")

// Payload is what a source offers. Record is set for TagProperty.
type Payload struct {
	Tag    Tag
	Record domain.PropertyRecord
}

// Source is the drag role of a catalog item.
type Source struct {
	payload Payload

	mu       sync.Mutex
	dragging bool
}

// NewPropertySource offers rec as a PROPERTY payload.
func NewPropertySource(rec domain.PropertyRecord) *Source {
	return &Source{payload: Payload{Tag: TagProperty, Record: rec}}
}

// NewSource offers an arbitrary payload.
func NewSource(p Payload) *Source {
	return &Source{payload: p}
}

func (s *Source) Payload() Payload {
	return s.payload
}

// IsDragging is for visual feedback only.
func (s *Source) IsDragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

func (s *Source) setDragging(v bool) {
	s.mu.Lock()
	s.dragging = v
	s.mu.Unlock()
}

// Target is the drop role. onDrop runs once per completed drop of an
// accepted payload.
type Target struct {
	accepts map[Tag]struct{}
	onDrop  func(Payload)

	mu   sync.Mutex
	over bool
}

func NewTarget(onDrop func(Payload), accepts ...Tag) *Target {
	t := &Target{
		accepts: make(map[Tag]struct{}, len(accepts)),
		onDrop:  onDrop,
	}
	for _, tag := range accepts {
		t.accepts[tag] = struct{}{}
	}
	return t
}

func (t *Target) Accepts(tag Tag) bool {
	_, ok := t.accepts[tag]
	return ok
}

// IsOver reports whether a compatible payload is hovering. Visual only.
func (t *Target) IsOver() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.over
}

func (t *Target) setOver(v bool) {
	t.mu.Lock()
	t.over = v
	t.mu.Unlock()
}

// Drop delivers p. Payloads with a tag the target does not accept are
// ignored and Drop returns false.
func (t *Target) Drop(p Payload) bool {
	t.setOver(false)
	if !t.Accepts(p.Tag) {
		return false
	}
	if t.onDrop != nil {
		t.onDrop(p)
	}
	return true
}

// Gesture is one drag from a source, possibly across a target, ending in a
// drop or a cancel.
type Gesture struct {
	mu     sync.Mutex
	source *Source
	target *Target
	done   bool
}

// Begin starts dragging src.
func Begin(src *Source) *Gesture {
	src.setDragging(true)
	return &Gesture{source: src}
}

func (g *Gesture) Source() *Source {
	return g.source
}

// Payload returns the payload being dragged.
func (g *Gesture) Payload() Payload {
	return g.source.Payload()
}

// Active reports whether the gesture has not yet dropped or been cancelled.
func (g *Gesture) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.done
}

// Over returns the target currently hovered, or nil.
func (g *Gesture) Over() *Target {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Enter moves the gesture over t. It reports whether t accepts the payload;
// an incompatible target is not marked as hovered.
func (g *Gesture) Enter(t *Target) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return false
	}
	if g.target != nil && g.target != t {
		g.target.setOver(false)
	}
	g.target = t
	ok := t.Accepts(g.source.payload.Tag)
	t.setOver(ok)
	return ok
}

// Leave moves the gesture off its current target.
func (g *Gesture) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.target != nil {
		g.target.setOver(false)
		g.target = nil
	}
}

// Drop releases the payload. With no target, or an incompatible one, the
// gesture is cancelled and Drop returns false.
func (g *Gesture) Drop() bool {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return false
	}
	g.done = true
	target := g.target
	g.target = nil
	g.mu.Unlock()

	g.source.setDragging(false)
	if target == nil {
		return false
	}
	return target.Drop(g.source.payload)
}

// Cancel abandons the gesture without delivering anything.
func (g *Gesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return
	}
	g.done = true
	if g.target != nil {
		g.target.setOver(false)
		g.target = nil
	}
	g.source.setDragging(false)
}
