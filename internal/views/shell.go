package views

import (
	"errors"
	"fmt"
	"sync"
)

// View names one of the two screens.
type View string

const (
	ViewList View = "list"
	ViewAdd  View = "add"
)

// ErrUnknownView is returned by ParseView.
var ErrUnknownView = errors.New("unknown view")

// ParseView converts a transport value into a View.
func ParseView(v string) (View, error) {
	switch View(v) {
	case ViewList, ViewAdd:
		return View(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, v)
}

// Client is the remote API as seen by the views.
type Client interface {
	Lister
	Creator
}

// Shell mounts exactly one view at a time and owns the generation that
// tells the listing to refetch after a creation.
type Shell struct {
	client Client
	gen    Generation

	mu       sync.Mutex
	active   View
	listing  *ListingView
	creation *CreationView
	closed   bool
}

// NewShell returns a shell showing the listing, which starts its first fetch
// immediately.
func NewShell(client Client) *Shell {
	s := &Shell{client: client, active: ViewList}
	s.mountLocked()
	return s
}

// SelectView switches to v. The previous view is unmounted and its state
// is lost. Selecting the active view does nothing.
func (s *Shell) SelectView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || v == s.active {
		return
	}
	s.unmountLocked()
	s.active = v
	s.mountLocked()
}

// Active returns the mounted view's name.
func (s *Shell) Active() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Generation returns the number of confirmed creations so far.
func (s *Shell) Generation() uint64 {
	return s.gen.Value()
}

// Listing returns the mounted listing, or nil.
func (s *Shell) Listing() *ListingView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

// Creation returns the mounted creation form, or nil.
func (s *Shell) Creation() *CreationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creation
}

// Close unmounts the active view.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.unmountLocked()
}

func (s *Shell) onCreated() {
	s.gen.Bump()
	s.SelectView(ViewList)
}

func (s *Shell) mountLocked() {
	switch s.active {
	case ViewList:
		s.listing = NewListingView(s.client)
		s.listing.Follow(&s.gen)
	case ViewAdd:
		s.creation = NewCreationView(s.client, s.onCreated)
	}
}

func (s *Shell) unmountLocked() {
	if s.listing != nil {
		s.listing.Close()
		s.listing = nil
	}
	s.creation = nil
}
