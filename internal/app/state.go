// Package app provides application state, events, theming, and development
// lifecycle helpers.
package app

import (
	"sync"

	"scene-studio/internal/history"
	"scene-studio/internal/image"
	"scene-studio/internal/placement"
)

// State holds the editing document: the scene history, the two product
// slots, and the current slider values. UI components subscribe to events
// rather than polling.
type State struct {
	mu sync.RWMutex

	// History of committed scene states. The entry at the cursor is what
	// the canvas displays.
	History *history.Stack

	// Product slots. A nil slot is empty.
	products [2]*image.Buffer
	labels   [2]string

	// Current (not yet applied) slider values.
	edits image.Edits

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventSceneChanged EventType = iota // history commit, undo, redo, or reset
	EventPreviewUpdated
	EventProductChanged
	EventPlacementChanged
	EventMaskChanged
	EventEditsChanged
	EventBusyChanged
	EventError
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an empty history.
func NewState() *State {
	return &State{
		History:   history.NewStack(),
		edits:     image.DefaultEdits(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Product returns the image in the given slot, or nil when empty.
func (s *State) Product(source placement.Source) *image.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products[slotIndex(source)]
}

// ProductLabel returns the user-facing label of the given slot.
func (s *State) ProductLabel(source placement.Source) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels[slotIndex(source)]
}

// SetProduct stores an image in a product slot and emits EventProductChanged.
func (s *State) SetProduct(source placement.Source, img *image.Buffer, label string) {
	s.mu.Lock()
	s.products[slotIndex(source)] = img
	s.labels[slotIndex(source)] = label
	s.mu.Unlock()

	s.Emit(EventProductChanged, source)
}

// Edits returns the current slider values.
func (s *State) Edits() image.Edits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edits
}

// SetEdits replaces the slider record and emits EventEditsChanged.
func (s *State) SetEdits(edits image.Edits) {
	s.mu.Lock()
	s.edits = edits
	s.mu.Unlock()

	s.Emit(EventEditsChanged, edits)
}

// CurrentScene returns the scene image at the history cursor, or nil before
// any scene is loaded.
func (s *State) CurrentScene() *image.Buffer {
	entry := s.History.Current()
	if entry == nil {
		return nil
	}
	return entry.Image
}

func slotIndex(source placement.Source) int {
	if source == placement.SourceProductB {
		return 1
	}
	return 0
}
