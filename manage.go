package rollgrid

// CellManager2 is the cell lifecycle contract for 2D grids. The grid calls
// it exactly once per cell transition, synchronously, on the caller's
// goroutine, in the scan order documented per operation:
//
//   - Load: the cell enters the window; return its payload.
//   - Unload: the cell permanently leaves the window; the value is handed
//     over for teardown and the grid never touches it again.
//   - Reload: the cell's logical identity changes while it stays resident;
//     the callback may inspect or replace the payload through value.
type CellManager2[T any] interface {
	Load(pos Point) T
	Unload(pos Point, value T)
	Reload(oldPos, newPos Point, value *T)
}

// TryCellManager2 is the fallible counterpart of CellManager2. An error
// from any callback aborts the in-progress grid operation and is surfaced
// unchanged. Cells already transitioned stay transitioned; there is no
// rollback.
type TryCellManager2[T any] interface {
	Load(pos Point) (T, error)
	Unload(pos Point, value T) error
	Reload(oldPos, newPos Point, value *T) error
}

// ManageFuncs2 adapts plain functions to CellManager2. Nil members are
// treated as no-ops; a nil LoadFunc loads the zero value.
type ManageFuncs2[T any] struct {
	LoadFunc   func(pos Point) T
	UnloadFunc func(pos Point, value T)
	ReloadFunc func(oldPos, newPos Point, value *T)
}

func (m ManageFuncs2[T]) Load(pos Point) T {
	if m.LoadFunc == nil {
		var zero T
		return zero
	}
	return m.LoadFunc(pos)
}

func (m ManageFuncs2[T]) Unload(pos Point, value T) {
	if m.UnloadFunc != nil {
		m.UnloadFunc(pos, value)
	}
}

func (m ManageFuncs2[T]) Reload(oldPos, newPos Point, value *T) {
	if m.ReloadFunc != nil {
		m.ReloadFunc(oldPos, newPos, value)
	}
}

// TryManageFuncs2 adapts plain functions to TryCellManager2. Nil members
// are treated as no-ops that succeed; a nil LoadFunc loads the zero value.
type TryManageFuncs2[T any] struct {
	LoadFunc   func(pos Point) (T, error)
	UnloadFunc func(pos Point, value T) error
	ReloadFunc func(oldPos, newPos Point, value *T) error
}

func (m TryManageFuncs2[T]) Load(pos Point) (T, error) {
	if m.LoadFunc == nil {
		var zero T
		return zero, nil
	}
	return m.LoadFunc(pos)
}

func (m TryManageFuncs2[T]) Unload(pos Point, value T) error {
	if m.UnloadFunc == nil {
		return nil
	}
	return m.UnloadFunc(pos, value)
}

func (m TryManageFuncs2[T]) Reload(oldPos, newPos Point, value *T) error {
	if m.ReloadFunc == nil {
		return nil
	}
	return m.ReloadFunc(oldPos, newPos, value)
}

// CellManager3 is the cell lifecycle contract for 3D grids.
// See CellManager2 for the transition semantics.
type CellManager3[T any] interface {
	Load(pos Point3) T
	Unload(pos Point3, value T)
	Reload(oldPos, newPos Point3, value *T)
}

// TryCellManager3 is the fallible counterpart of CellManager3.
// See TryCellManager2 for the abort semantics.
type TryCellManager3[T any] interface {
	Load(pos Point3) (T, error)
	Unload(pos Point3, value T) error
	Reload(oldPos, newPos Point3, value *T) error
}

// ManageFuncs3 adapts plain functions to CellManager3. Nil members are
// treated as no-ops; a nil LoadFunc loads the zero value.
type ManageFuncs3[T any] struct {
	LoadFunc   func(pos Point3) T
	UnloadFunc func(pos Point3, value T)
	ReloadFunc func(oldPos, newPos Point3, value *T)
}

func (m ManageFuncs3[T]) Load(pos Point3) T {
	if m.LoadFunc == nil {
		var zero T
		return zero
	}
	return m.LoadFunc(pos)
}

func (m ManageFuncs3[T]) Unload(pos Point3, value T) {
	if m.UnloadFunc != nil {
		m.UnloadFunc(pos, value)
	}
}

func (m ManageFuncs3[T]) Reload(oldPos, newPos Point3, value *T) {
	if m.ReloadFunc != nil {
		m.ReloadFunc(oldPos, newPos, value)
	}
}

// TryManageFuncs3 adapts plain functions to TryCellManager3. Nil members
// are treated as no-ops that succeed; a nil LoadFunc loads the zero value.
type TryManageFuncs3[T any] struct {
	LoadFunc   func(pos Point3) (T, error)
	UnloadFunc func(pos Point3, value T) error
	ReloadFunc func(oldPos, newPos Point3, value *T) error
}

func (m TryManageFuncs3[T]) Load(pos Point3) (T, error) {
	if m.LoadFunc == nil {
		var zero T
		return zero, nil
	}
	return m.LoadFunc(pos)
}

func (m TryManageFuncs3[T]) Unload(pos Point3, value T) error {
	if m.UnloadFunc == nil {
		return nil
	}
	return m.UnloadFunc(pos, value)
}

func (m TryManageFuncs3[T]) Reload(oldPos, newPos Point3, value *T) error {
	if m.ReloadFunc == nil {
		return nil
	}
	return m.ReloadFunc(oldPos, newPos, value)
}

// infallible2 bridges CellManager2 into the fallible shape so the Try*
// code paths can serve both variants.
type infallible2[T any] struct {
	m CellManager2[T]
}

func (w infallible2[T]) Load(pos Point) (T, error) {
	return w.m.Load(pos), nil
}

func (w infallible2[T]) Unload(pos Point, value T) error {
	w.m.Unload(pos, value)
	return nil
}

func (w infallible2[T]) Reload(oldPos, newPos Point, value *T) error {
	w.m.Reload(oldPos, newPos, value)
	return nil
}

type infallible3[T any] struct {
	m CellManager3[T]
}

func (w infallible3[T]) Load(pos Point3) (T, error) {
	return w.m.Load(pos), nil
}

func (w infallible3[T]) Unload(pos Point3, value T) error {
	w.m.Unload(pos, value)
	return nil
}

func (w infallible3[T]) Reload(oldPos, newPos Point3, value *T) error {
	w.m.Reload(oldPos, newPos, value)
	return nil
}
