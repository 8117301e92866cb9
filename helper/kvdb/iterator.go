package kvdb

// Iterator walks key/value pairs in ascending key order.
type Iterator interface {
	// Next moves to the next pair, returning false once exhausted.
	Next() bool

	// Key returns the current key. The slice is only valid until the next move.
	Key() []byte

	// Value returns the current value. The slice is only valid until the next move.
	Value() []byte

	// Release frees the iterator. Safe to call more than once.
	Release()

	// Error returns any accumulated error. Exhaustion is not an error.
	Error() error
}

// Iteratee wraps the NewIterator methods of a backing data store.
type Iteratee interface {
	// NewIterator iterates the keys carrying prefix, starting at prefix+start.
	NewIterator(prefix, start []byte) Iterator
}
