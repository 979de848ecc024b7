package forecast

import (
	"sync"

	"github.com/google/uuid"
)

// Gallery holds rendered chart PNGs for the web layer, keyed by an
// opaque id. Charts live for the process lifetime, like sessions.
type Gallery struct {
	mu     sync.Mutex
	charts map[string][]byte
	latest string
}

func NewGallery() *Gallery {
	return &Gallery{charts: make(map[string][]byte)}
}

func (g *Gallery) Add(png []byte) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uuid.NewString()
	g.charts[id] = png
	g.latest = id
	return id
}

func (g *Gallery) Get(id string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	png, ok := g.charts[id]
	return png, ok
}

// TakeLatest returns the id of the most recently added chart and
// clears the marker, so each request only picks up its own chart.
func (g *Gallery) TakeLatest() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.latest
	g.latest = ""
	return id, id != ""
}
