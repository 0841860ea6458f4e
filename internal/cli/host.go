package cli

import (
	"sort"

	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/tile"
)

// memHost is an in-memory compositor stand-in. It records the geometry,
// visibility and focus the layout pushes at it so commands can print or
// render the final state.
type memHost struct {
	geometry map[tile.SurfaceHandle]geo.Rect
	visible  map[tile.SurfaceHandle]bool
	focused  tile.SurfaceHandle
}

func newMemHost() *memHost {
	return &memHost{
		geometry: make(map[tile.SurfaceHandle]geo.Rect),
		visible:  make(map[tile.SurfaceHandle]bool),
	}
}

func (h *memHost) SetSurfaceGeometry(handle tile.SurfaceHandle, g geo.Rect) {
	h.geometry[handle] = g
}

func (h *memHost) SetSurfaceVisible(handle tile.SurfaceHandle, visible bool) {
	h.visible[handle] = visible
}

func (h *memHost) RequestFocus(handle tile.SurfaceHandle) {
	h.focused = handle
}

// names returns all known surface names in a stable order.
func (h *memHost) names() []string {
	out := make([]string, 0, len(h.geometry))
	for handle := range h.geometry {
		if s, ok := handle.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
