// Package tile implements the container tree at the core of the layout
// engine: split containers with ratio-based sizing, surface leaves wrapping
// host surfaces, and workspaces owning one tiled tree plus a set of floating
// roots.
//
// # Ownership model
//
// Every node is owned by exactly one parent slot: a container child entry, a
// workspace's tiled root, or a workspace's floating set. The parent and
// workspace fields on a node are weak back-references used for traversal;
// they are kept consistent on every reparenting operation but never own the
// node. Detaching a node (RemoveChild, SwapChild) clears its parent.
//
// # Geometry discipline
//
// Geometry recomputation is eager and total: every mutation that changes a
// container's children immediately re-lays-out the affected subtree before
// returning, so no operation ever observes stale geometry. Surface geometry
// changes are pushed to the host through the Host interface as they happen.
//
// The package is not safe for concurrent use; the layout core is
// single-threaded by design and all mutations happen synchronously inside
// host event handlers.
package tile
