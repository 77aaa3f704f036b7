// Package rollgrid implements rolling fixed-capacity grids for streaming
// cell data around a moving viewpoint.
//
// # Overview
//
// A rolling grid keeps a dense window of cells over an unbounded 2D or 3D
// coordinate space. Moving the window does not move cell payloads: storage
// is addressed toroidally, so cells that stay inside the window keep their
// slot and only the cells at the entering edge are touched. This is
// particularly useful for:
//
//   - Chunk streaming in tile- and voxel-based worlds
//   - Sliding caches over large spatial datasets
//   - Level-of-detail rings that follow a camera or player
//   - Any fixed-memory window over an unbounded grid
//
// # Basic Usage
//
//	grid := rollgrid.NewRollGrid2D(4, 4, rollgrid.Pt(0, 0), func(pos rollgrid.Point) Chunk {
//		return loadChunk(pos)
//	})
//	defer grid.Release()
//
//	// Read and write cells by world coordinate
//	chunk := grid.Get(rollgrid.Pt(2, 3))
//	old, ok := grid.Set(rollgrid.Pt(1, 1), freshChunk)
//
//	// Follow the viewpoint; only edge cells are reloaded
//	grid.Translate(rollgrid.Pt(1, 0), manager)
//
// # Cell Lifecycle
//
// Window mutations report every cell transition through a cell manager
// (CellManager2 or CellManager3): Load for cells entering the window,
// Unload for cells leaving it, and Reload when a storage slot is handed
// from an old coordinate to a new one. Each transition is reported exactly
// once and cells covered by both the old and new windows are never
// reported at all. ManageFuncs2 and ManageFuncs3 adapt plain functions to
// the interface.
//
// Every mutating operation has a Try variant taking error-returning
// callbacks. An error stops the operation where it is; completed
// transitions are not rolled back.
//
// # Errors
//
// Misuse panics with a message prefixed "rollgrid:": zero-sized axes,
// sizes beyond the addressable range, offsets leaving the signed 32-bit
// coordinate space, use after Release. Querying a coordinate outside the
// window is not misuse: Get returns nil and Set reports false.
//
// # Thread Safety
//
// No type in this package is safe for concurrent use. Guard grids with
// your own synchronization if they are shared.
//
// # Performance Characteristics
//
//   - Get/Set: O(1)
//   - Translate/Reposition: O(cells entering the window)
//   - Resize: O(cells entering + cells leaving)
//   - Memory overhead: none beyond the cell payloads
package rollgrid
