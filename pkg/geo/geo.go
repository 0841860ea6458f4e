// Package geo provides the geometry primitives used by the layout core.
//
// All coordinates are integer pixels in workspace-local space: the origin is
// the top-left corner of a workspace's workarea, x grows rightward and y grows
// downward. Rectangles describe the total outer bounds of a node.
package geo

// Point is a position in workspace-local pixel coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	W int
	H int
}

// Rect is an axis-aligned rectangle in workspace-local pixel coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Contains reports whether p lies inside r. Points on the left/top edges are
// inside, points on the right/bottom edges are not.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Dimensions returns the width and height of r.
func (r Rect) Dimensions() Dimensions { return Dimensions{r.W, r.H} }

// Translate returns r moved by (dx, dy) with its size unchanged.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Resize returns r with the given dimensions, anchored at its origin.
func (r Rect) Resize(d Dimensions) Rect {
	return Rect{r.X, r.Y, d.W, d.H}
}

// RelativeTo converts a geometry from one workspace's coordinate space to
// another's. Workspaces on an output form a grid; a geometry local to the
// workspace at grid position from is offset by whole workarea sizes to become
// local to the workspace at grid position to.
func RelativeTo(g Rect, from, to Point, size Dimensions) Rect {
	return g.Translate((from.X-to.X)*size.W, (from.Y-to.Y)*size.H)
}

// Axis is a layout axis.
type Axis uint8

const (
	// Horizontal is the x axis: extents are widths, siblings sit side by side.
	Horizontal Axis = iota
	// Vertical is the y axis: extents are heights, siblings stack downward.
	Vertical
)

// String returns "horizontal" or "vertical".
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Direction is one of the four cardinal movement/navigation directions.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Opposite returns the direction opposite to d.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	default:
		return Up
	}
}

// Axis returns the axis d moves along.
func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return Horizontal
	}
	return Vertical
}

// Forward reports whether d points toward increasing coordinates
// (Right or Down).
func (d Direction) Forward() bool { return d == Right || d == Down }

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	default:
		return "down"
	}
}

// ParseDirection converts a direction name ("left", "right", "up", "down")
// into a Direction. The second return value reports whether the name was
// recognized.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return Left, false
}
