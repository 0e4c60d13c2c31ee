package worldstate

import (
	"strconv"

	"openvic.dev/simcore/internal/calendar"
	"openvic.dev/simcore/internal/registry"
)

// Bookmark is a named starting point for a new game (spec.md §6): a
// display name and description, a date, and an initial camera position.
type Bookmark struct {
	index          int
	Name           string
	Description    string
	Date           calendar.Date
	InitialCameraX uint32
	InitialCameraY uint32
}

func (b *Bookmark) Identifier() string { return strconv.Itoa(b.index) }

// Index returns the bookmark's insertion position.
func (b *Bookmark) Index() int { return b.index }

// BookmarkManager stores bookmarks in insertion order (spec.md §6:
// "Stored in insertion order, queryable by last_bookmark_date()").
type BookmarkManager struct {
	reg *registry.Registry[*Bookmark]
}

func NewBookmarkManager() *BookmarkManager {
	return &BookmarkManager{reg: registry.New[*Bookmark]("bookmarks", 0)}
}

// AddBookmark appends a bookmark, indexed by insertion order.
func (m *BookmarkManager) AddBookmark(name, description string, date calendar.Date, cameraX, cameraY uint32) (*Bookmark, bool) {
	b := &Bookmark{
		index:          m.reg.Len(),
		Name:           name,
		Description:    description,
		Date:           date,
		InitialCameraX: cameraX,
		InitialCameraY: cameraY,
	}
	return b, m.reg.Add(b)
}

func (m *BookmarkManager) Lock()             { m.reg.Lock() }
func (m *BookmarkManager) Items() []*Bookmark { return m.reg.Items() }
func (m *BookmarkManager) Len() int          { return m.reg.Len() }

// LastBookmarkDate scans for the maximum date rather than assuming
// insertion order tracks chronological order (Bookmark.cpp's
// get_last_bookmark_date does the same linear scan). Returns the zero
// Date if no bookmarks are registered.
func (m *BookmarkManager) LastBookmarkDate() calendar.Date {
	var latest calendar.Date
	for _, b := range m.reg.Items() {
		if b.Date.After(latest) {
			latest = b.Date
		}
	}
	return latest
}
