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

	"github.com/krotik/common/errorutil"

	"github.com/krotik/vgraph/codec"
	"github.com/krotik/vgraph/kv"
)

/*
EdgeRangeManager is one orientation-tagged view over an edge-range tree:
key = (first, t, update_datetime, second), value empty. A Store holds two
instances, one over TreeEdgeRanges (first = outbound) and one over
TreeReversedEdgeRanges (first = inbound), so traversal "from an endpoint"
is always a prefix or bounded range scan on whichever tree matches the
direction asked for.
*/
type EdgeRangeManager struct {
	tree kv.Tree
}

func newEdgeRangeManager(tree kv.Tree) *EdgeRangeManager {
	return &EdgeRangeManager{tree: tree}
}

/*
Name returns the name of the tree this instance is layered over, so that
EdgeManager can stage writes against it in a Batch without needing its
own copy of the tree reference.
*/
func (rm *EdgeRangeManager) Name() string {
	return rm.tree.Name()
}

func (rm *EdgeRangeManager) key(first VertexID, t string, dt time.Time, second VertexID) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, first)

	if err := codec.EncodeType(buf, t); err != nil {
		return nil, err
	}

	codec.EncodeDateTime(buf, dt)
	codec.EncodeUUID(buf, second)

	return append([]byte(nil), buf.Bytes()...), nil
}

func (rm *EdgeRangeManager) ownerPrefix(id VertexID) []byte {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, id)

	return append([]byte(nil), buf.Bytes()...)
}

func (rm *EdgeRangeManager) typePrefix(id VertexID, t string) ([]byte, error) {
	buf := codec.GetBuffer()
	defer codec.PutBuffer(buf)

	codec.EncodeUUID(buf, id)

	if err := codec.EncodeType(buf, t); err != nil {
		return nil, err
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func decodeEdgeRangeEntry(key []byte) (EdgeRangeEntry, error) {
	c := codec.NewCursor(key)

	first, err := codec.DecodeUUID(c)
	if err != nil {
		return EdgeRangeEntry{}, wrapUUID(err)
	}

	t, err := codec.DecodeType(c)
	if err != nil {
		return EdgeRangeEntry{}, wrapDatastore(err)
	}

	dt, err := codec.DecodeDateTime(c)
	if err != nil {
		return EdgeRangeEntry{}, wrapDatastore(err)
	}

	second, err := codec.DecodeUUID(c)
	if err != nil {
		return EdgeRangeEntry{}, wrapUUID(err)
	}

	errorutil.AssertTrue(c.Remaining() == 0, "edge range key has trailing bytes after decode")

	return EdgeRangeEntry{First: first, Type: t, UpdateDatetime: dt, Second: second}, nil
}

/*
Set writes the index row for (first, t, second) at dt.
*/
func (rm *EdgeRangeManager) Set(first VertexID, t string, dt time.Time, second VertexID) error {
	key, err := rm.key(first, t, dt, second)
	if err != nil {
		return wrapValueTooLong(err)
	}

	return wrapDatastore(rm.tree.Put(key, []byte{}))
}

/*
Delete removes the index row for (first, t, second) at dt. Deleting an
absent row is not an error.
*/
func (rm *EdgeRangeManager) Delete(first VertexID, t string, dt time.Time, second VertexID) error {
	key, err := rm.key(first, t, dt, second)
	if err != nil {
		return wrapValueTooLong(err)
	}

	return wrapDatastore(rm.tree.Delete(key))
}

/*
IterateForOwner returns every index row whose first component is id, in
ascending (t, update_datetime, second) order. Used by the cascade
protocol, which does not care about ordering.
*/
func (rm *EdgeRangeManager) IterateForOwner(id VertexID) (*EdgeRangeIterator, error) {
	it, err := rm.tree.ScanPrefix(rm.ownerPrefix(id))
	if err != nil {
		return nil, wrapDatastore(err)
	}

	return &EdgeRangeIterator{it: it}, nil
}

/*
IterateForRange is the central traversal primitive, with four modes
selected by whether t and high are given:

  - t set, high set: rows of type t with update_datetime <= high, newest
    first. The design document resolves the source's documented ordering
    defect (a forward scan past high, which actually yields
    update_datetime >= high) by reverse-scanning from (id, t, high) down
    to (id, t, MinDateTime); since kv.Tree only exposes ascending
    iteration, this is implemented by scanning the (id, t) prefix
    forward, filtering to update_datetime <= high, and reversing the
    result in memory.
  - t set, high nil: equivalent to high = codec.MaxDateTime.
  - t nil, high set: prefix scan on id, post-filtered in memory to
    update_datetime <= high, in ascending order.
  - t nil, high nil: plain prefix scan on id, ascending.
*/
func (rm *EdgeRangeManager) IterateForRange(id VertexID, t *string, high *time.Time) (*EdgeRangeIterator, error) {
	if t != nil {
		h := codec.MaxDateTime
		if high != nil {
			h = *high
		}
		return rm.iterateTypedBounded(id, *t, h)
	}

	it, err := rm.IterateForOwner(id)
	if err != nil {
		return nil, err
	}

	if high == nil {
		return it, nil
	}

	return rm.filterByHigh(it, *high)
}

func (rm *EdgeRangeManager) iterateTypedBounded(id VertexID, t string, high time.Time) (*EdgeRangeIterator, error) {
	prefix, err := rm.typePrefix(id, t)
	if err != nil {
		return nil, wrapValueTooLong(err)
	}

	it, err := rm.tree.ScanPrefix(prefix)
	if err != nil {
		return nil, wrapDatastore(err)
	}
	defer it.Close()

	var entries []EdgeRangeEntry

	for it.Next() {
		entry, err := decodeEdgeRangeEntry(it.Item().Key)
		if err != nil {
			return nil, err
		}
		if !entry.UpdateDatetime.After(high) {
			entries = append(entries, entry)
		}
	}
	if err := it.Error(); err != nil {
		return nil, wrapDatastore(err)
	}

	reverseEdgeRangeEntries(entries)

	return &EdgeRangeIterator{entries: entries}, nil
}

func (rm *EdgeRangeManager) filterByHigh(it *EdgeRangeIterator, high time.Time) (*EdgeRangeIterator, error) {
	defer it.Close()

	var entries []EdgeRangeEntry

	for it.Next() {
		entry, err := it.Item()
		if err != nil {
			return nil, err
		}
		if !entry.UpdateDatetime.After(high) {
			entries = append(entries, entry)
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	return &EdgeRangeIterator{entries: entries}, nil
}

func reverseEdgeRangeEntries(entries []EdgeRangeEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

/*
EdgeRangeIterator yields EdgeRangeEntry values. It wraps either a live
kv.Iterator (plain prefix scans, which stream) or a pre-computed, already
filtered/ordered slice (the bounded modes, which must buffer to filter or
reverse).
*/
type EdgeRangeIterator struct {
	it      kv.Iterator
	entries []EdgeRangeEntry
	pos     int
	err     error
}

/*
Next advances the iterator. It returns false once exhausted or after the
first decode error; check Error to distinguish the two.
*/
func (it *EdgeRangeIterator) Next() bool {
	if it.err != nil {
		return false
	}

	if it.it != nil {
		if !it.it.Next() {
			it.err = it.it.Error()
			return false
		}
		return true
	}

	if it.pos >= len(it.entries) {
		return false
	}
	it.pos++

	return true
}

/*
Item decodes the current entry. Only valid after Next returned true.
*/
func (it *EdgeRangeIterator) Item() (EdgeRangeEntry, error) {
	if it.it != nil {
		entry, err := decodeEdgeRangeEntry(it.it.Item().Key)
		if err != nil {
			it.err = err
			return EdgeRangeEntry{}, err
		}
		return entry, nil
	}

	return it.entries[it.pos-1], nil
}

/*
Error returns the first error encountered while iterating, if any.
*/
func (it *EdgeRangeIterator) Error() error {
	return it.err
}

/*
Close releases the underlying iterator, if this is a streaming instance.
*/
func (it *EdgeRangeIterator) Close() {
	if it.it != nil {
		it.it.Close()
	}
}
