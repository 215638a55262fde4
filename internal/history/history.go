// Package history implements the linear undo/redo stack of committed scene
// states.
package history

import (
	"time"

	"github.com/google/uuid"

	"scene-studio/internal/image"
)

// DebugArtifact carries optional diagnostics attached to an entry by the
// generation service: the raw image it returned before post-processing and
// the prompt it was given.
type DebugArtifact struct {
	Image  *image.Buffer
	Prompt string
}

// Entry is one committed scene state. Entries are immutable once committed;
// replacing the current state always goes through Stack.Commit.
type Entry struct {
	ID        uuid.UUID
	Image     *image.Buffer
	Debug     *DebugArtifact
	Label     string
	CreatedAt time.Time
}

// NewEntry creates an entry wrapping a committed scene image.
func NewEntry(img *image.Buffer, label string) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Image:     img,
		Label:     label,
		CreatedAt: time.Now(),
	}
}

// Stack is an ordered sequence of entries with a movable cursor.
//
// Invariant: cursor == -1 iff the stack is empty, otherwise
// 0 <= cursor < len(entries). A commit prunes every entry after the cursor
// (discarding the redo branch) before appending, so there is never a tree of
// redo branches.
type Stack struct {
	entries []*Entry
	cursor  int
}

// NewStack creates an empty history stack.
func NewStack() *Stack {
	return &Stack{cursor: -1}
}

// Commit truncates entries after the cursor, appends the entry, and moves
// the cursor to it.
func (s *Stack) Commit(entry *Entry) {
	s.entries = append(s.entries[:s.cursor+1], entry)
	s.cursor = len(s.entries) - 1
}

// Undo moves the cursor one entry back. It is a no-op at the first entry or
// on an empty stack; the return value reports whether the cursor moved.
func (s *Stack) Undo() bool {
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo moves the cursor one entry forward. It is a no-op at the last entry
// or on an empty stack.
func (s *Stack) Redo() bool {
	if s.cursor < 0 || s.cursor >= len(s.entries)-1 {
		return false
	}
	s.cursor++
	return true
}

// Current returns the entry at the cursor, or nil for an empty stack.
func (s *Stack) Current() *Entry {
	if s.cursor < 0 {
		return nil
	}
	return s.entries[s.cursor]
}

// Reset clears the stack.
func (s *Stack) Reset() {
	s.entries = nil
	s.cursor = -1
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Cursor returns the current cursor index, -1 when empty.
func (s *Stack) Cursor() int {
	return s.cursor
}

// CanUndo reports whether Undo would move the cursor.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (s *Stack) CanRedo() bool {
	return s.cursor >= 0 && s.cursor < len(s.entries)-1
}

// Entries returns the committed entries in order, oldest first. The slice is
// a copy; the entries themselves are shared and must not be mutated.
func (s *Stack) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
