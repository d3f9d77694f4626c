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
	"time"

	"github.com/krotik/vgraph/codec"
	"github.com/krotik/vgraph/kv"
)

/*
EdgeManager is an ephemeral view over the edge tree. Every operation that
touches more than one tree - set and delete, which also maintain the
forward and reversed range indexes - stages its writes in a batchTxn
rather than calling the trees directly, narrowing the cross-tree
atomicity gap described in the design document where the underlying
kv.Store supports it.
*/
type EdgeManager struct {
	store    kv.Store
	tree     kv.Tree
	forward  *EdgeRangeManager
	reversed *EdgeRangeManager
	events   *cascadeManager
	owner    *Store
}

func newEdgeManager(store kv.Store, tree kv.Tree, forward, reversed *EdgeRangeManager, events *cascadeManager) *EdgeManager {
	return &EdgeManager{store: store, tree: tree, forward: forward, reversed: reversed, events: events}
}

func (em *EdgeManager) key(o VertexID, t string, i VertexID) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, o)

	if err := codec.EncodeType(buf, t); err != nil {
		return nil, err
	}

	codec.EncodeUUID(buf, i)

	return append([]byte(nil), buf.Bytes()...), nil
}

func (em *EdgeManager) get(key []byte) (time.Time, bool, error) {
	value, err := em.tree.Get(key)
	if err != nil {
		return time.Time{}, false, wrapDatastore(err)
	}

	if value == nil {
		return time.Time{}, false, nil
	}

	dt, err := codec.DecodeDateTime(codec.NewCursor(value))
	if err != nil {
		return time.Time{}, false, wrapDatastore(err)
	}

	return dt, true, nil
}

/*
Get returns the edge's current update_datetime, or (zero, false, nil) if
no edge (o, t, i) exists.
*/
func (em *EdgeManager) Get(o VertexID, t string, i VertexID) (time.Time, bool, error) {
	key, err := em.key(o, t, i)
	if err != nil {
		return time.Time{}, false, wrapValueTooLong(err)
	}

	return em.get(key)
}

/*
Set writes edge (o, t, i) with update_datetime newDt. If a prior
update_datetime exists for (o, t, i) - found with a point get, matching
the original implementation's behaviour - its forward and reversed index
rows are removed first, then the edge row and both new index rows are
written. All of these writes (three, or five when prior rows are
removed) are staged in one batchTxn.

Calling Set again with the same (o, t, i, newDt) as the existing record
is a no-op observable only as the index rows being removed and
re-inserted identically.
*/
func (em *EdgeManager) Set(o VertexID, t string, i VertexID, newDt time.Time) error {
	key, err := em.key(o, t, i)
	if err != nil {
		return wrapValueTooLong(err)
	}

	priorDt, had, err := em.get(key)
	if err != nil {
		return err
	}

	txn := newBatchTxn(em.store)

	if had {
		fKey, err := em.forward.key(o, t, priorDt, i)
		if err != nil {
			return wrapValueTooLong(err)
		}
		rKey, err := em.reversed.key(i, t, priorDt, o)
		if err != nil {
			return wrapValueTooLong(err)
		}
		txn.delete(em.forward.Name(), fKey)
		txn.delete(em.reversed.Name(), rKey)
	}

	valBuf := codec.GetBuffer()
	codec.EncodeDateTime(valBuf, newDt)
	value := append([]byte(nil), valBuf.Bytes()...)
	codec.PutBuffer(valBuf)

	fKey, err := em.forward.key(o, t, newDt, i)
	if err != nil {
		return wrapValueTooLong(err)
	}
	rKey, err := em.reversed.key(i, t, newDt, o)
	if err != nil {
		return wrapValueTooLong(err)
	}

	txn.put(em.tree.Name(), key, value)
	txn.put(em.forward.Name(), fKey, []byte{})
	txn.put(em.reversed.Name(), rKey, []byte{})

	return txn.commit()
}

/*
Delete removes edge (o, t, i, dt) and its forward and reversed index
rows, then fires EventEdgeDeleted so the cascade dispatch removes its
properties. The three row removals are staged in one batchTxn.
*/
func (em *EdgeManager) Delete(o VertexID, t string, i VertexID, dt time.Time) error {
	key, err := em.key(o, t, i)
	if err != nil {
		return wrapValueTooLong(err)
	}

	fKey, err := em.forward.key(o, t, dt, i)
	if err != nil {
		return wrapValueTooLong(err)
	}
	rKey, err := em.reversed.key(i, t, dt, o)
	if err != nil {
		return wrapValueTooLong(err)
	}

	txn := newBatchTxn(em.store)
	txn.delete(em.tree.Name(), key)
	txn.delete(em.forward.Name(), fKey)
	txn.delete(em.reversed.Name(), rKey)

	if err := txn.commit(); err != nil {
		return err
	}

	return em.events.fire(em.owner, EventEdgeDeleted, o, t, i)
}
