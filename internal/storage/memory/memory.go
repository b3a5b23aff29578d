// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/scoutpb/scout/internal/config"
	"github.com/scoutpb/scout/pkg/core"
)

// Record groups a waypoint with the raycast that created it
type Record struct {
	Owner    string           `json:"owner"`
	Waypoint core.Waypoint    `json:"waypoint"`
	Hit      *core.RaycastHit `json:"hit,omitempty"`
}

// Backend stores waypoints in memory, optionally persisting a compressed
// snapshot across restarts
type Backend struct {
	cfg config.MemoryConfig

	records   []*Record // creation order
	byID      map[uint]*Record
	idCounter uint
	mu        sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:  cfg,
		byID: make(map[uint]*Record),
	}
}

// Init loads the snapshot if one is configured and present
func (b *Backend) Init() error {
	if b.cfg.SnapshotPath == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadSnapshot()
}

// Close writes the snapshot if one is configured
func (b *Backend) Close() error {
	if b.cfg.SnapshotPath == "" {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saveSnapshot()
}

// ListWaypoints returns copies of the owner's waypoints in creation order
func (b *Backend) ListWaypoints(owner string) ([]core.Waypoint, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []core.Waypoint
	for _, r := range b.records {
		if r.Owner != owner {
			continue
		}
		out = append(out, copyWaypoint(r.Waypoint))
	}
	return out, nil
}

// CreateWaypoint registers a new waypoint and assigns its ID
func (b *Backend) CreateWaypoint(owner string, w *core.Waypoint, hit *core.RaycastHit) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	w.ID = b.idCounter

	r := &Record{Owner: owner, Waypoint: copyWaypoint(*w)}
	if hit != nil {
		h := *hit
		r.Hit = &h
	}
	b.records = append(b.records, r)
	b.byID[w.ID] = r
	return nil
}

// UpdateWaypoint applies u; unknown IDs or foreign owners are ignored
func (b *Backend) UpdateWaypoint(owner string, u core.Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.byID[u.ID]
	if !ok || r.Owner != owner {
		return nil
	}

	r.Waypoint.Name = u.Name
	r.Waypoint.Description = u.Description
	r.Waypoint.Position = copyPosition(u.Position)
	r.Waypoint.Color = u.Color
	return nil
}

// GetRecord looks up a record by waypoint ID
func (b *Backend) GetRecord(id uint) (Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.byID[id]
	if !ok {
		return Record{}, false
	}
	out := *r
	out.Waypoint = copyWaypoint(r.Waypoint)
	return out, true
}

func copyWaypoint(w core.Waypoint) core.Waypoint {
	w.Position = copyPosition(w.Position)
	return w
}

func copyPosition(p *core.Position3D) *core.Position3D {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
