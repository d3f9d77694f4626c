/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"github.com/krotik/vgraph/codec"
	"github.com/krotik/vgraph/kv"
)

/*
VertexManager is an ephemeral view over the vertex tree. It holds only a
reference to the store it was created from and caches no state across
calls, the same ownership rule the design document places on every
manager.
*/
type VertexManager struct {
	tree   kv.Tree
	events *cascadeManager
	owner  *Store
}

func newVertexManager(tree kv.Tree, events *cascadeManager) *VertexManager {
	return &VertexManager{tree: tree, events: events}
}

func (vm *VertexManager) key(id VertexID) []byte {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, id)

	return append([]byte(nil), buf.Bytes()...)
}

/*
Exists returns whether a vertex with the given id is present.
*/
func (vm *VertexManager) Exists(id VertexID) (bool, error) {
	v, err := vm.tree.Get(vm.key(id))
	if err != nil {
		return false, wrapDatastore(err)
	}
	return v != nil, nil
}

/*
Get returns the vertex's Type, or ("", false, nil) if it does not exist.
*/
func (vm *VertexManager) Get(id VertexID) (string, bool, error) {
	value, err := vm.tree.Get(vm.key(id))
	if err != nil {
		return "", false, wrapDatastore(err)
	}

	if value == nil {
		return "", false, nil
	}

	t, err := codec.DecodeType(codec.NewCursor(value))
	if err != nil {
		return "", false, wrapDatastore(err)
	}

	return t, true, nil
}

/*
Create unconditionally writes v, overwriting an existing vertex's Type.
Callers wanting create-only semantics should check Exists first.
*/
func (vm *VertexManager) Create(v Vertex) error {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	if err := codec.EncodeType(buf, v.Type); err != nil {
		return wrapValueTooLong(err)
	}

	if err := vm.tree.Put(vm.key(v.ID), buf.Bytes()); err != nil {
		return wrapDatastore(err)
	}

	return nil
}

/*
IterateForRange returns an ordered iterator over every vertex at or
after start.
*/
func (vm *VertexManager) IterateForRange(start VertexID) (*VertexIterator, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, start)

	it, err := vm.tree.Range(buf.Bytes())
	if err != nil {
		return nil, wrapDatastore(err)
	}

	return &VertexIterator{it: it}, nil
}

/*
Delete removes a vertex and cascades to every edge touching it and every
property it owns:

 1. Remove the vertex row.
 2. Scan the vertex-property prefix and delete each property.
 3. Scan the forward edge-range prefix; for each (id, t, dt, other) entry,
    delete the edge (id, t, other, dt).
 4. Scan the reversed edge-range prefix; for each (id, t, dt, other)
    entry, delete the edge (other, t, id, dt) - the reversed index stores
    endpoints flipped, so the edge-centric delete must flip them back.

Steps 2-4 are performed by the cascade dispatch fired for
EventVertexDeleted. The cascade stops at the first error; already
performed partial deletions are not rolled back, but every step is
idempotent against already-missing rows, so retrying the same delete
after a failure is safe.
*/
func (vm *VertexManager) Delete(id VertexID) error {
	if err := vm.tree.Delete(vm.key(id)); err != nil {
		return wrapDatastore(err)
	}

	return vm.events.fire(vm.owner, EventVertexDeleted, id)
}

/*
VertexIterator yields (VertexID, Type) pairs in ascending id order.
*/
type VertexIterator struct {
	it  kv.Iterator
	err error
}

/*
Next advances the iterator. It returns false once exhausted or after the
first decode error; check Error to distinguish the two.
*/
func (it *VertexIterator) Next() bool {
	if it.err != nil {
		return false
	}

	if !it.it.Next() {
		it.err = it.it.Error()
		return false
	}

	return true
}

/*
Item decodes the current (id, type) pair. Only valid after Next returned
true.
*/
func (it *VertexIterator) Item() (Vertex, error) {
	item := it.it.Item()

	id, err := codec.DecodeUUID(codec.NewCursor(item.Key))
	if err != nil {
		return Vertex{}, wrapUUID(err)
	}

	t, err := codec.DecodeType(codec.NewCursor(item.Value))
	if err != nil {
		return Vertex{}, wrapDatastore(err)
	}

	return Vertex{ID: id, Type: t}, nil
}

/*
Error returns the first error encountered while iterating, if any.
*/
func (it *VertexIterator) Error() error {
	return it.err
}

/*
Close releases the underlying iterator.
*/
func (it *VertexIterator) Close() {
	it.it.Close()
}
