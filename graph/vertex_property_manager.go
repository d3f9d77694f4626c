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
	"encoding/json"

	"github.com/krotik/vgraph/codec"
	"github.com/krotik/vgraph/kv"
)

/*
VertexPropertyManager is a thin name->JSON store over the vertex-property
tree. Key = (vertex id, FixedLengthString property name); value = a JSON
blob. It has no knowledge of what a vertex is beyond its id, the same
separation the design document draws between the graph-shape managers and
the property managers.
*/
type VertexPropertyManager struct {
	tree kv.Tree
}

func newVertexPropertyManager(tree kv.Tree) *VertexPropertyManager {
	return &VertexPropertyManager{tree: tree}
}

func (pm *VertexPropertyManager) key(id VertexID, name string) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, id)

	if err := codec.EncodeFixedLengthString(buf, name); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

/*
Get decodes the value of property name on id into out and returns true,
or returns (false, nil) if it is not set.
*/
func (pm *VertexPropertyManager) Get(id VertexID, name string, out interface{}) (bool, error) {
	key, err := pm.key(id, name)
	if err != nil {
		return false, wrapValueTooLong(err)
	}

	value, err := pm.tree.Get(key)
	if err != nil {
		return false, wrapDatastore(err)
	}

	if value == nil {
		return false, nil
	}

	if err := json.Unmarshal(value, out); err != nil {
		return false, wrapJSON(err)
	}

	return true, nil
}

/*
Set serialises v as JSON and writes it under (id, name), overwriting any
existing value.
*/
func (pm *VertexPropertyManager) Set(id VertexID, name string, v interface{}) error {
	key, err := pm.key(id, name)
	if err != nil {
		return wrapValueTooLong(err)
	}

	value, err := json.Marshal(v)
	if err != nil {
		return wrapJSON(err)
	}

	return wrapDatastore(pm.tree.Put(key, value))
}

/*
Delete removes property name on id. Deleting an absent property is not
an error.
*/
func (pm *VertexPropertyManager) Delete(id VertexID, name string) error {
	key, err := pm.key(id, name)
	if err != nil {
		return wrapValueTooLong(err)
	}

	return wrapDatastore(pm.tree.Delete(key))
}

func (pm *VertexPropertyManager) ownerPrefix(id VertexID) []byte {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, id)

	return append([]byte(nil), buf.Bytes()...)
}

/*
IterateForOwner returns every property row belonging to id, decoding the
trailing FixedLengthString as the property name. The JSON value is
returned raw; callers that need the decoded value should json.Unmarshal
it themselves.
*/
func (pm *VertexPropertyManager) IterateForOwner(id VertexID) (*VertexPropertyIterator, error) {
	it, err := pm.tree.ScanPrefix(pm.ownerPrefix(id))
	if err != nil {
		return nil, wrapDatastore(err)
	}

	return &VertexPropertyIterator{it: it}, nil
}

/*
deleteOwner removes every property row belonging to id. Used by the
cascade dispatch when a vertex is deleted.
*/
func (pm *VertexPropertyManager) deleteOwner(id VertexID) error {
	it, err := pm.IterateForOwner(id)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		key := it.key()
		if err := pm.tree.Delete(key); err != nil {
			return wrapDatastore(err)
		}
	}

	return it.Error()
}

/*
VertexPropertyEntry is one decoded row of a vertex-property scan.
*/
type VertexPropertyEntry struct {
	Name  string
	Value json.RawMessage
}

/*
VertexPropertyIterator yields VertexPropertyEntry values in ascending key
order. Property names are length-prefixed, so shorter names come before
longer ones and names of equal length are in byte order.
*/
type VertexPropertyIterator struct {
	it  kv.Iterator
	err error
}

/*
Next advances the iterator. It returns false once exhausted or after the
first decode error; check Error to distinguish the two.
*/
func (it *VertexPropertyIterator) Next() bool {
	if it.err != nil {
		return false
	}

	if !it.it.Next() {
		it.err = it.it.Error()
		return false
	}

	return true
}

func (it *VertexPropertyIterator) key() []byte {
	return it.it.Item().Key
}

/*
Item decodes the current property entry. Only valid after Next returned
true.
*/
func (it *VertexPropertyIterator) Item() (VertexPropertyEntry, error) {
	item := it.it.Item()

	c := codec.NewCursor(item.Key)
	if _, err := codec.DecodeUUID(c); err != nil {
		return VertexPropertyEntry{}, wrapUUID(err)
	}

	name, err := codec.DecodeFixedLengthString(c)
	if err != nil {
		return VertexPropertyEntry{}, wrapDatastore(err)
	}

	return VertexPropertyEntry{Name: name, Value: json.RawMessage(item.Value)}, nil
}

/*
Error returns the first error encountered while iterating, if any.
*/
func (it *VertexPropertyIterator) Error() error {
	return it.err
}

/*
Close releases the underlying iterator.
*/
func (it *VertexPropertyIterator) Close() {
	it.it.Close()
}
