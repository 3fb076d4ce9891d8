// Package registry provides a thread-safe keyed table that can be frozen.
//
// Table is the storage behind printer registration: entries are added
// during a build phase, the table is frozen, and from then on it is only
// read. Keys are ordered so listings are deterministic.
//
// # Basic Usage
//
//	t := registry.New[string, int]()
//	_, _ = t.Register("one", 1)
//	replaced, _ := t.Register("one", 2) // last write wins, replaced == true
//
//	v, ok := t.Get("one") // 2, true
//
// # Freezing
//
// After Freeze, Register, RegisterMany and Delete return ErrFrozen and leave
// the table untouched:
//
//	t.Freeze()
//	_, err := t.Register("two", 2) // errors.Is(err, registry.ErrFrozen)
//
// # Thread Safety
//
// All Table methods are safe for concurrent use. Range iterates over a
// sorted snapshot, so the callback may call back into the table.
package registry
