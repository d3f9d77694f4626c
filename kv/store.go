/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package kv defines the ordered key-value store primitives the graph
package is built on: named trees, point get/put/delete, and ordered
range/prefix iterators.

This package only fixes the contract. Two implementations are provided:
kv/memkv (an in-memory tree used by the graph package's own unit tests)
and kv/badgerkv (a disk-backed tree over github.com/dgraph-io/badger/v4).
Durability and concurrency of the underlying engine are entirely the
concern of the implementation, not of this package or of the graph
package that consumes it.
*/
package kv

import "errors"

/*
Store-level errors.
*/
var (
	ErrClosed = errors.New("store is closed")
)

/*
Config holds the options a Store is opened with. Compression names a
compression algorithm understood by the concrete implementation (e.g.
"snappy", "zstd" for kv/badgerkv); a nil Compression means no
compression, and is the only portable choice across implementations.
*/
type Config struct {
	Compression *string
}

/*
KeyValue is a single key/value pair yielded by an Iterator.
*/
type KeyValue struct {
	Key   []byte
	Value []byte
}

/*
Iterator yields key/value pairs from a Tree in ascending key order.
Callers must call Close when done advancing it, and must check Error
after Next returns false to distinguish exhaustion from an iteration
error - this module never retries a failed iteration internally.
*/
type Iterator interface {

	/*
	   Next advances the iterator and reports whether an item is
	   available via Item.
	*/
	Next() bool

	/*
	   Item returns the current key/value pair. Only valid after a Next
	   call returned true.
	*/
	Item() KeyValue

	/*
	   Error returns the first error encountered while iterating, if any.
	*/
	Error() error

	/*
	   Close releases resources held by the iterator.
	*/
	Close()
}

/*
Tree is one named ordered key space within a Store.
*/
type Tree interface {

	/*
	   Name returns the tree's name.
	*/
	Name() string

	/*
	   Get returns the value stored under key, or (nil, nil) if key is
	   absent.
	*/
	Get(key []byte) ([]byte, error)

	/*
	   Put unconditionally writes value under key, overwriting any
	   existing value.
	*/
	Put(key, value []byte) error

	/*
	   Delete removes key. Deleting an absent key is not an error.
	*/
	Delete(key []byte) error

	/*
	   Range returns an iterator over all keys >= start, in ascending
	   order.
	*/
	Range(start []byte) (Iterator, error)

	/*
	   ScanPrefix returns an iterator over all keys sharing prefix, in
	   ascending order.
	*/
	ScanPrefix(prefix []byte) (Iterator, error)
}

/*
Batch groups writes across one or more trees so they can be handed to
the underlying engine as a single unit where the engine supports that;
see the graph package's batchTxn for how the cascade operations use this to
narrow (not close) the cross-tree atomicity gap described in the design
notes.
*/
type Batch interface {

	/*
	   Put stages a write of value under key in the named tree.
	*/
	Put(tree string, key, value []byte)

	/*
	   Delete stages a removal of key in the named tree.
	*/
	Delete(tree string, key []byte)

	/*
	   Commit applies every staged write. A Batch must not be reused
	   after Commit is called.
	*/
	Commit() error
}

/*
Store is a named collection of ordered trees.
*/
type Store interface {

	/*
	   Tree returns the named tree, creating it if it does not already
	   exist.
	*/
	Tree(name string) (Tree, error)

	/*
	   NewBatch starts a new Batch of writes across this store's trees.
	*/
	NewBatch() Batch

	/*
	   Close releases all resources held by the store.
	*/
	Close() error
}
