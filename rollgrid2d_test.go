package rollgrid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityGrid2 builds a grid whose every cell holds its own coordinate.
func identityGrid2(t *testing.T, width, height uint32, offset Point) *RollGrid2D[Point] {
	t.Helper()
	return NewRollGrid2D(width, height, offset, func(pos Point) Point { return pos })
}

// snapshot2 collects the grid contents keyed by coordinate.
func snapshot2(g *RollGrid2D[Point]) map[Point]Point {
	out := make(map[Point]Point, g.Len())
	for p, v := range g.Cells() {
		out[p] = *v
	}
	return out
}

// identityMap2 is the expected contents of an identity grid over bounds.
func identityMap2(bounds Bounds2D) map[Point]Point {
	out := make(map[Point]Point, bounds.Area())
	for p := range bounds.Points() {
		out[p] = p
	}
	return out
}

// reloadIdentity2 asserts each reloaded slot holds the payload of the old
// coordinate, then rewrites it for the new one.
func reloadIdentity2(t *testing.T, calls *int) ManageFuncs2[Point] {
	t.Helper()
	return ManageFuncs2[Point]{
		ReloadFunc: func(oldPos, newPos Point, value *Point) {
			*calls++
			assert.Equal(t, oldPos, *value, "slot handed to reload holds the wrong payload")
			*value = newPos
		},
	}
}

func overlapArea2(a, b Bounds2D) int64 {
	overlap := a.Intersection(b)
	if overlap.IsEmpty() {
		return 0
	}
	return overlap.Area()
}

func TestRollGrid2DNew(t *testing.T) {
	g := identityGrid2(t, 3, 2, Pt(-1, 4))
	defer g.Release()

	assert.Equal(t, uint32(3), g.Width())
	assert.Equal(t, uint32(2), g.Height())
	assert.Equal(t, Pt(-1, 4), g.Offset())
	assert.Equal(t, 6, g.Len())
	assert.Equal(t, NewBounds2D(Pt(-1, 4), Pt(2, 6)), g.Bounds())

	wx, wy := g.WrapOffset()
	assert.Zero(t, wx)
	assert.Zero(t, wy)

	if diff := cmp.Diff(identityMap2(g.Bounds()), snapshot2(g)); diff != "" {
		t.Errorf("fresh grid contents mismatch (-want +got):\n%s", diff)
	}
}

func TestRollGrid2DLayoutPanics(t *testing.T) {
	mustPanic(t, msgAreaIsZero, func() {
		identityGrid2(t, 0, 3, Pt(0, 0))
	})
	mustPanic(t, msgSizeTooLarge, func() {
		identityGrid2(t, 1<<16, 1<<16, Pt(0, 0))
	})
	mustPanic(t, msgOffsetRange, func() {
		identityGrid2(t, 4, 4, Pt(0, 2147483646))
	})
}

func TestRollGrid2DAddressBijection(t *testing.T) {
	g := identityGrid2(t, 5, 4, Pt(-2, 3))
	defer g.Release()

	// roll a few times so the wrap offset is nontrivial
	noop := ManageFuncs2[Point]{}
	g.Translate(Pt(2, 1), noop)
	g.Translate(Pt(-1, 2), noop)

	seen := make(map[int]Point, g.Len())
	for p := range g.Points() {
		i, ok := g.offsetIndex(p)
		require.True(t, ok, "coordinate %v not addressable", p)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, g.Len())
		prev, dup := seen[i]
		require.False(t, dup, "index %d claimed by both %v and %v", i, prev, p)
		seen[i] = p
	}
	assert.Len(t, seen, g.Len())

	_, ok := g.offsetIndex(Pt(100, 100))
	assert.False(t, ok)
}

func TestRollGrid2DGetSet(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(0, 0))
	defer g.Release()

	require.NotNil(t, g.Get(Pt(1, 1)))
	assert.Equal(t, Pt(1, 1), *g.Get(Pt(1, 1)))
	assert.Nil(t, g.Get(Pt(2, 0)), "coordinate outside the window must be absent")

	old, ok := g.Set(Pt(0, 1), Pt(9, 9))
	require.True(t, ok)
	assert.Equal(t, Pt(0, 1), old)
	assert.Equal(t, Pt(9, 9), *g.Get(Pt(0, 1)))

	_, ok = g.Set(Pt(-1, 0), Pt(0, 0))
	assert.False(t, ok, "Set outside the window must leave the grid unchanged")
}

func TestRollGrid2DTranslate(t *testing.T) {
	g := identityGrid2(t, 4, 4, Pt(0, 0))
	defer g.Release()

	calls := 0
	g.Translate(Pt(1, 1), reloadIdentity2(t, &calls))

	// 4x4 moved by (1,1): 9 cells stay, 7 enter
	assert.Equal(t, 7, calls)
	assert.Equal(t, Pt(1, 1), g.Offset())
	wx, wy := g.WrapOffset()
	assert.Equal(t, uint32(1), wx)
	assert.Equal(t, uint32(1), wy)

	if diff := cmp.Diff(identityMap2(g.Bounds()), snapshot2(g)); diff != "" {
		t.Errorf("grid contents after translate (-want +got):\n%s", diff)
	}
}

func TestRollGrid2DTranslateSweep(t *testing.T) {
	for dy := int32(-5); dy <= 5; dy++ {
		for dx := int32(-5); dx <= 5; dx++ {
			g := identityGrid2(t, 4, 4, Pt(0, 0))
			before := g.Bounds()

			calls := 0
			g.Translate(Pt(dx, dy), reloadIdentity2(t, &calls))

			after := g.Bounds()
			require.Equal(t, Pt(dx, dy), after.Min, "delta (%d, %d)", dx, dy)

			wantCalls := after.Area() - overlapArea2(before, after)
			require.EqualValues(t, wantCalls, calls, "reload count for delta (%d, %d)", dx, dy)

			wx, wy := g.WrapOffset()
			require.Less(t, wx, g.Width(), "delta (%d, %d)", dx, dy)
			require.Less(t, wy, g.Height(), "delta (%d, %d)", dx, dy)

			if diff := cmp.Diff(identityMap2(after), snapshot2(g)); diff != "" {
				t.Fatalf("contents after delta (%d, %d) (-want +got):\n%s", dx, dy, diff)
			}
			g.Release()
		}
	}
}

func TestRollGrid2DTranslateChain(t *testing.T) {
	g := identityGrid2(t, 4, 4, Pt(0, 0))
	defer g.Release()

	calls := 0
	deltas := []Point{Pt(3, 0), Pt(0, 2), Pt(-1, -1), Pt(2, 3), Pt(-5, 1)}
	for _, d := range deltas {
		g.Translate(d, reloadIdentity2(t, &calls))
		if diff := cmp.Diff(identityMap2(g.Bounds()), snapshot2(g)); diff != "" {
			t.Fatalf("contents after delta %v (-want +got):\n%s", d, diff)
		}
	}
	assert.Equal(t, Pt(-1, 5), g.Offset())
}

func TestRollGrid2DTranslateInverse(t *testing.T) {
	// translating by d then -d restores offset, wrap offset and every
	// observable cell value
	deltas := []Point{Pt(1, 0), Pt(2, 3), Pt(-3, 1), Pt(5, -5)}
	for _, d := range deltas {
		g := identityGrid2(t, 4, 4, Pt(7, -2))
		want := snapshot2(g)

		calls := 0
		g.Translate(d, reloadIdentity2(t, &calls))
		g.Translate(Pt(-d.X, -d.Y), reloadIdentity2(t, &calls))

		require.Equal(t, Pt(7, -2), g.Offset(), "delta %v", d)
		wx, wy := g.WrapOffset()
		require.Zero(t, wx, "delta %v", d)
		require.Zero(t, wy, "delta %v", d)
		if diff := cmp.Diff(want, snapshot2(g)); diff != "" {
			t.Fatalf("contents after %v and back (-want +got):\n%s", d, diff)
		}
		g.Release()
	}
}

func TestRollGrid2DResizeKeepsPayloads(t *testing.T) {
	// kept cells must carry their exact payload across a resize, with no
	// load or unload routed through them; mark them so a spurious load
	// (which would produce the plain coordinate) is detectable
	g := identityGrid2(t, 4, 4, Pt(0, 0))
	defer g.Release()

	marker := func(p Point) Point { return p.Add(Pt(100, 100)) }
	for p := range g.Points() {
		g.Set(p, marker(p))
	}

	g.ResizeAndReposition(3, 3, Pt(2, 2), ManageFuncs2[Point]{
		LoadFunc: func(pos Point) Point { return pos },
		UnloadFunc: func(pos Point, value Point) {
			assert.Equal(t, marker(pos), value, "unloaded cell lost its payload")
		},
	})

	kept := NewBounds2D(Pt(2, 2), Pt(4, 4))
	for p := range g.Points() {
		want := p
		if kept.Contains(p) {
			want = marker(p)
		}
		assert.Equal(t, want, *g.Get(p), "cell %v", p)
	}
}

func TestRollGrid2DRepositionDisjoint(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(0, 0))
	defer g.Release()

	type pair struct{ old, new Point }
	var got []pair
	g.Reposition(Pt(10, 10), ManageFuncs2[Point]{
		ReloadFunc: func(oldPos, newPos Point, value *Point) {
			got = append(got, pair{oldPos, newPos})
			assert.Equal(t, oldPos, *value)
			*value = newPos
		},
	})

	// every cell reloads, old coordinates paired by relative position,
	// scan order over the new window
	want := []pair{
		{Pt(0, 0), Pt(10, 10)},
		{Pt(1, 0), Pt(11, 10)},
		{Pt(0, 1), Pt(10, 11)},
		{Pt(1, 1), Pt(11, 11)},
	}
	assert.Equal(t, want, got)

	// a full reload leaves the wrap offset alone
	wx, wy := g.WrapOffset()
	assert.Zero(t, wx)
	assert.Zero(t, wy)
}

func TestRollGrid2DRepositionNoop(t *testing.T) {
	g := identityGrid2(t, 3, 3, Pt(2, 2))
	defer g.Release()

	g.Reposition(Pt(2, 2), ManageFuncs2[Point]{
		ReloadFunc: func(oldPos, newPos Point, value *Point) {
			t.Errorf("reload called on a no-op reposition: %v -> %v", oldPos, newPos)
		},
	})
}

// countingManager2 loads the coordinate into each entering cell and checks
// that leaving cells still hold their own coordinate.
func countingManager2(t *testing.T, loads, unloads *int) ManageFuncs2[Point] {
	t.Helper()
	return ManageFuncs2[Point]{
		LoadFunc: func(pos Point) Point {
			*loads++
			return pos
		},
		UnloadFunc: func(pos Point, value Point) {
			*unloads++
			assert.Equal(t, pos, value, "unloaded cell holds the wrong payload")
		},
	}
}

func TestRollGrid2DResizeAndReposition(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		position      Point
	}{
		{"grow centered", 4, 4, Pt(-1, -1)},
		{"shrink far corner", 1, 1, Pt(1, 1)},
		{"same size shifted", 2, 2, Pt(1, 1)},
		{"disjoint", 2, 2, Pt(10, 10)},
		{"taller only", 2, 5, Pt(0, -2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := identityGrid2(t, 2, 2, Pt(0, 0))
			defer g.Release()
			before := g.Bounds()

			loads, unloads := 0, 0
			g.ResizeAndReposition(tt.width, tt.height, tt.position, countingManager2(t, &loads, &unloads))

			after := g.Bounds()
			require.Equal(t, tt.position, after.Min)
			require.Equal(t, tt.width, g.Width())
			require.Equal(t, tt.height, g.Height())

			overlap := overlapArea2(before, after)
			assert.EqualValues(t, after.Area()-overlap, loads, "load count")
			assert.EqualValues(t, before.Area()-overlap, unloads, "unload count")

			if tt.width != 2 || tt.height != 2 {
				// a genuine resize rebuilds storage in natural order
				wx, wy := g.WrapOffset()
				assert.Zero(t, wx, "wrap offset must reset on resize")
				assert.Zero(t, wy, "wrap offset must reset on resize")
			}

			if diff := cmp.Diff(identityMap2(after), snapshot2(g)); diff != "" {
				t.Errorf("contents after resize (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRollGrid2DResizeSweep(t *testing.T) {
	for w := uint32(1); w <= 6; w++ {
		for h := uint32(1); h <= 6; h++ {
			for oy := int32(-2); oy <= 4; oy++ {
				for ox := int32(-2); ox <= 4; ox++ {
					g := identityGrid2(t, 4, 4, Pt(0, 0))
					before := g.Bounds()

					loads, unloads := 0, 0
					g.ResizeAndReposition(w, h, Pt(ox, oy), countingManager2(t, &loads, &unloads))

					after := g.Bounds()
					overlap := overlapArea2(before, after)
					require.EqualValues(t, after.Area()-overlap, loads,
						"load count for %dx%d at (%d, %d)", w, h, ox, oy)
					require.EqualValues(t, before.Area()-overlap, unloads,
						"unload count for %dx%d at (%d, %d)", w, h, ox, oy)

					if diff := cmp.Diff(identityMap2(after), snapshot2(g)); diff != "" {
						t.Fatalf("contents after resize to %dx%d at (%d, %d) (-want +got):\n%s", w, h, ox, oy, diff)
					}
					g.Release()
				}
			}
		}
	}
}

func TestRollGrid2DResizeAfterRoll(t *testing.T) {
	// a nonzero wrap offset must not disturb relocation
	g := identityGrid2(t, 4, 4, Pt(0, 0))
	defer g.Release()

	calls := 0
	g.Translate(Pt(2, 3), reloadIdentity2(t, &calls))

	loads, unloads := 0, 0
	g.ResizeAndReposition(3, 2, Pt(3, 4), countingManager2(t, &loads, &unloads))

	if diff := cmp.Diff(identityMap2(g.Bounds()), snapshot2(g)); diff != "" {
		t.Errorf("contents after roll+resize (-want +got):\n%s", diff)
	}
}

func TestRollGrid2DInflateDeflate(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(0, 0))
	defer g.Release()

	loads, unloads := 0, 0
	g.InflateSize(1, countingManager2(t, &loads, &unloads))
	assert.Equal(t, uint32(4), g.Width())
	assert.Equal(t, uint32(4), g.Height())
	assert.Equal(t, Pt(-1, -1), g.Offset())
	assert.Equal(t, 12, loads)
	assert.Equal(t, 0, unloads)

	loads, unloads = 0, 0
	g.DeflateSize(1, countingManager2(t, &loads, &unloads))
	assert.Equal(t, uint32(2), g.Width())
	assert.Equal(t, uint32(2), g.Height())
	assert.Equal(t, Pt(0, 0), g.Offset())
	assert.Equal(t, 0, loads)
	assert.Equal(t, 12, unloads)

	if diff := cmp.Diff(identityMap2(g.Bounds()), snapshot2(g)); diff != "" {
		t.Errorf("contents after inflate+deflate (-want +got):\n%s", diff)
	}

	mustPanic(t, msgDeflateTooLarge, func() {
		g.DeflateSize(1, ManageFuncs2[Point]{})
	})
}

func TestRollGrid2DTranslateRangePanic(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(2147483640, 0))
	defer g.Release()

	mustPanic(t, msgOffsetRange, func() {
		g.Translate(Pt(100, 0), ManageFuncs2[Point]{})
	})
}

func TestRollGrid2DTryTranslateError(t *testing.T) {
	g := identityGrid2(t, 3, 3, Pt(0, 0))
	defer g.Release()

	calls := 0
	err := g.TryTranslate(Pt(1, 0), TryManageFuncs2[Point]{
		ReloadFunc: func(oldPos, newPos Point, value *Point) error {
			calls++
			if calls == 2 {
				return errTest
			}
			*value = newPos
			return nil
		},
	})
	require.ErrorIs(t, err, errTest)
	assert.Equal(t, 2, calls, "operation must stop at the failing cell")
	// the window already moved; the error does not roll it back
	assert.Equal(t, Pt(1, 0), g.Offset())
}

func TestRollGrid2DTryResizeError(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(0, 0))
	defer g.Release()

	err := g.TryResizeAndReposition(2, 2, Pt(10, 10), TryManageFuncs2[Point]{
		UnloadFunc: func(pos Point, value Point) error {
			return errTest
		},
	})
	require.ErrorIs(t, err, errTest)
}

func TestRollGrid2DRelease(t *testing.T) {
	g := identityGrid2(t, 2, 2, Pt(0, 0))
	g.Release()

	assert.True(t, g.Buffer().Released())
	mustPanic(t, msgUnallocated, func() { g.Get(Pt(0, 0)) })
}
