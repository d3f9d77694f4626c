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
Package memkv provides an in-memory kv.Store, the memory-only
counterpart to kv/badgerkv in the same way the teacher repository splits
DiskGraphStorage and MemoryGraphStorage: same Store/Tree contract, no
disk involved. It exists so the graph package's own test suite does not
need an external database to exercise the key schema and cascade logic.
*/
package memkv

import (
	"bytes"
	"sort"
	"sync"

	"github.com/krotik/vgraph/kv"
)

/*
Store is an in-memory kv.Store. The zero value is not usable; use New.
*/
type Store struct {
	mutex sync.Mutex
	trees map[string]*Tree
}

/*
New creates an empty in-memory Store.
*/
func New() *Store {
	return &Store{trees: make(map[string]*Tree)}
}

/*
Tree returns the named tree, creating it on first access.
*/
func (s *Store) Tree(name string) (kv.Tree, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t, ok := s.trees[name]
	if !ok {
		t = newTree(name)
		s.trees[name] = t
	}

	return t, nil
}

/*
NewBatch starts a Batch of writes across this store's trees. memkv
writes are already single-threaded behind each Tree's mutex, so Commit
applies the staged writes without any additional locking; it is not an
atomic unit from a crash-recovery standpoint, matching what a real
embedded store without multi-tree transactions would offer.
*/
func (s *Store) NewBatch() kv.Batch {
	return &batch{store: s}
}

/*
Close is a no-op for an in-memory store.
*/
func (s *Store) Close() error {
	return nil
}

type op struct {
	tree   string
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	store *Store
	ops   []op
}

func (b *batch) Put(tree string, key, value []byte) {
	b.ops = append(b.ops, op{tree: tree, key: key, value: value})
}

func (b *batch) Delete(tree string, key []byte) {
	b.ops = append(b.ops, op{tree: tree, key: key, delete: true})
}

func (b *batch) Commit() error {
	for _, o := range b.ops {
		t, err := b.store.Tree(o.tree)
		if err != nil {
			return err
		}

		if o.delete {
			if err := t.Delete(o.key); err != nil {
				return err
			}
		} else if err := t.Put(o.key, o.value); err != nil {
			return err
		}
	}

	return nil
}

/*
entry is one key/value pair held by a Tree, kept in a slice sorted by
Key so Range and ScanPrefix are simple binary-search-then-slice
operations.
*/
type entry struct {
	key   []byte
	value []byte
}

/*
Tree is an in-memory, sorted kv.Tree.
*/
type Tree struct {
	name    string
	mutex   sync.RWMutex
	entries []entry
}

func newTree(name string) *Tree {
	return &Tree{name: name}
}

func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) search(key []byte) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return bytes.Compare(t.entries[i].key, key) >= 0
	})

	found := i < len(t.entries) && bytes.Equal(t.entries[i].key, key)

	return i, found
}

func (t *Tree) Get(key []byte) ([]byte, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	i, found := t.search(key)
	if !found {
		return nil, nil
	}

	value := make([]byte, len(t.entries[i].value))
	copy(value, t.entries[i].value)

	return value, nil
}

func (t *Tree) Put(key, value []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)

	i, found := t.search(key)
	if found {
		t.entries[i].value = v
		return nil
	}

	t.entries = append(t.entries, entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = entry{key: k, value: v}

	return nil
}

func (t *Tree) Delete(key []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	i, found := t.search(key)
	if !found {
		return nil
	}

	t.entries = append(t.entries[:i], t.entries[i+1:]...)

	return nil
}

func (t *Tree) Range(start []byte) (kv.Iterator, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	i, _ := t.search(start)

	return newSliceIterator(t.entries[i:]), nil
}

func (t *Tree) ScanPrefix(prefix []byte) (kv.Iterator, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	i, _ := t.search(prefix)

	var snapshot []entry
	for _, e := range t.entries[i:] {
		if !bytes.HasPrefix(e.key, prefix) {
			break
		}
		snapshot = append(snapshot, e)
	}

	return newSliceIterator(snapshot), nil
}

/*
sliceIterator iterates a snapshot slice of entries copied out from under
the tree's lock, so it is immune to concurrent mutation of the tree -
stronger than the "best effort" guarantee kv.Iterator documents, but
never weaker than it.
*/
type sliceIterator struct {
	entries []entry
	pos     int
}

func newSliceIterator(entries []entry) *sliceIterator {
	snapshot := make([]entry, len(entries))
	copy(snapshot, entries)

	return &sliceIterator{entries: snapshot, pos: -1}
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.entries)
}

func (it *sliceIterator) Item() kv.KeyValue {
	e := it.entries[it.pos]
	return kv.KeyValue{Key: e.key, Value: e.value}
}

func (it *sliceIterator) Error() error {
	return nil
}

func (it *sliceIterator) Close() {
}
