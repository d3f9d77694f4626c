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
	"sync"

	"github.com/krotik/vgraph/kv"
)

/*
batchTxn groups the multi-tree writes of one cascade step - EdgeManager.Set
and EdgeManager.Delete - into a single kv.Batch. VertexManager.Delete does
not use it: it removes the vertex row directly and leaves the rest to the
cascade dispatch, whose edge deletions each get their own batchTxn.

This is an internal implementation detail, not the transactional
graph-API surface described in the design document as an external
collaborator: callers never see a batchTxn, never choose its boundaries,
and cannot group their own multi-call transactions with it. It exists
only to narrow, not close, the cross-tree atomicity gap a crash
mid-cascade can leave (see the design document's cascade robustness and
no-cross-tree-transaction notes): when the underlying kv.Store commits a
Batch atomically (as kv/badgerkv does, since every tree lives inside one
badger.DB), the whole cascade step becomes atomic too; when it does not,
the gap remains and a subsequent retry is still safe because every
cascade step is idempotent against already-missing rows.
*/
type batchTxn struct {
	batch kv.Batch
}

func newBatchTxn(store kv.Store) *batchTxn {
	return &batchTxn{batch: store.NewBatch()}
}

func (t *batchTxn) put(tree string, key, value []byte) {
	t.batch.Put(tree, key, value)
}

func (t *batchTxn) delete(tree string, key []byte) {
	t.batch.Delete(tree, key)
}

func (t *batchTxn) commit() error {
	return wrapDatastore(t.batch.Commit())
}

/*
idCounter assigns cascade-step ids purely for diagnostic logging, the
same role the teacher's idCounter plays for its Trans objects.
*/
var (
	idCounter     uint64
	idCounterLock sync.Mutex
)

func nextCascadeID() uint64 {
	idCounterLock.Lock()
	defer idCounterLock.Unlock()

	idCounter++
	return idCounter
}
