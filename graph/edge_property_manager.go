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
EdgePropertyManager is a thin name->JSON store over the edge-property
tree. Key = (outbound id, Type, inbound id, FixedLengthString property
name); value = a JSON blob.
*/
type EdgePropertyManager struct {
	tree kv.Tree
}

func newEdgePropertyManager(tree kv.Tree) *EdgePropertyManager {
	return &EdgePropertyManager{tree: tree}
}

func (pm *EdgePropertyManager) key(o VertexID, t string, i VertexID, name string) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, o)

	if err := codec.EncodeType(buf, t); err != nil {
		return nil, err
	}

	codec.EncodeUUID(buf, i)

	if err := codec.EncodeFixedLengthString(buf, name); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func (pm *EdgePropertyManager) ownerPrefix(o VertexID, t string, i VertexID) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, o)

	if err := codec.EncodeType(buf, t); err != nil {
		return nil, err
	}

	codec.EncodeUUID(buf, i)

	return append([]byte(nil), buf.Bytes()...), nil
}

/*
Get decodes the value of property name on edge (o, t, i) into out and
returns true, or returns (false, nil) if it is not set.
*/
func (pm *EdgePropertyManager) Get(o VertexID, t string, i VertexID, name string, out interface{}) (bool, error) {
	key, err := pm.key(o, t, i, name)
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
Set serialises v as JSON and writes it under (o, t, i, name), overwriting
any existing value.
*/
func (pm *EdgePropertyManager) Set(o VertexID, t string, i VertexID, name string, v interface{}) error {
	key, err := pm.key(o, t, i, name)
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
Delete removes property name on edge (o, t, i). Deleting an absent
property is not an error.
*/
func (pm *EdgePropertyManager) Delete(o VertexID, t string, i VertexID, name string) error {
	key, err := pm.key(o, t, i, name)
	if err != nil {
		return wrapValueTooLong(err)
	}

	return wrapDatastore(pm.tree.Delete(key))
}

/*
deleteOwner removes every property row belonging to edge (o, t, i). Used
by the cascade dispatch when an edge is deleted.
*/
func (pm *EdgePropertyManager) deleteOwner(o VertexID, t string, i VertexID) error {
	prefix, err := pm.ownerPrefix(o, t, i)
	if err != nil {
		return wrapValueTooLong(err)
	}

	it, err := pm.tree.ScanPrefix(prefix)
	if err != nil {
		return wrapDatastore(err)
	}
	defer it.Close()

	for it.Next() {
		if err := pm.tree.Delete(it.Item().Key); err != nil {
			return wrapDatastore(err)
		}
	}

	return wrapDatastore(it.Error())
}
