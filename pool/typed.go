package pool

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/segpool/internal/sizes"
)

// Typed is a Pool whose segments hold one T each.
//
// T must not contain Go pointers (pointers, slices, strings, maps, channels,
// funcs or interfaces): pool memory is invisible to the garbage collector, so
// anything such a field referenced could be collected while still in use.
type Typed[T any] struct {
	pool *Pool
}

// NewTyped creates a Typed pool for T. A nil cfg selects DefaultConfig.
func NewTyped[T any](cfg *Config) (*Typed[T], error) {
	typ := reflect.TypeFor[T]()
	if hasPointers(typ) {
		return nil, fmt.Errorf("%w: %s", ErrPointerType, typ)
	}
	if typ.Align() > sizes.Word {
		return nil, fmt.Errorf("%w: %s aligns to %d", ErrAlignment, typ, typ.Align())
	}
	return &Typed[T]{pool: New(int(typ.Size()), cfg)}, nil
}

// New returns an uninitialized *T, or nil if the pool could not grow.
func (t *Typed[T]) New() *T {
	seg := t.pool.Allocate()
	if seg == nil {
		return nil
	}
	return (*T)(seg)
}

// NewZeroed returns a *T set to T's zero value, or nil if the pool could not grow.
func (t *Typed[T]) NewZeroed() *T {
	v := t.New()
	if v != nil {
		var zero T
		*v = zero
	}
	return v
}

// Free returns v to the pool. v must come from New or NewZeroed on t.
func (t *Typed[T]) Free(v *T) {
	t.pool.Deallocate(unsafe.Pointer(v))
}

// Pool returns the underlying untyped pool.
func (t *Typed[T]) Pool() *Pool {
	return t.pool
}

// Close releases all memory. Every *T obtained from t becomes invalid.
func (t *Typed[T]) Close() error {
	return t.pool.Close()
}

// hasPointers reports whether values of typ contain anything the garbage
// collector would need to trace.
func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := range typ.NumField() {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
