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

import "github.com/krotik/vgraph/kv"

/*
Store wires every manager together against one kv.Store, the same way
the teacher's graph.Manager wires its node/edge/index managers together
against one graphstorage.Storage. A Store owns no state of its own beyond
the manager instances and the underlying kv.Store; all graph state lives
in the store's trees.
*/
type Store struct {
	kvStore kv.Store

	Vertices         *VertexManager
	Edges            *EdgeManager
	forwardRanges    *EdgeRangeManager
	reversedRanges   *EdgeRangeManager
	vertexProperties *VertexPropertyManager
	edgeProperties   *EdgePropertyManager

	events *cascadeManager
}

/*
New opens every named tree on store and wires the five managers and the
cascade dispatch together into a Store.
*/
func New(store kv.Store) (*Store, error) {
	vertexTree, err := store.Tree(TreeVertices)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	edgeTree, err := store.Tree(TreeEdges)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	forwardTree, err := store.Tree(TreeEdgeRanges)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	reversedTree, err := store.Tree(TreeReversedEdgeRanges)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	vertexPropertyTree, err := store.Tree(TreeVertexProperties)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	edgePropertyTree, err := store.Tree(TreeEdgeProperties)
	if err != nil {
		return nil, wrapDatastore(err)
	}

	events := newCascadeManager()

	forwardRanges := newEdgeRangeManager(forwardTree)
	reversedRanges := newEdgeRangeManager(reversedTree)

	s := &Store{
		kvStore:          store,
		Vertices:         newVertexManager(vertexTree, events),
		Edges:            newEdgeManager(store, edgeTree, forwardRanges, reversedRanges, events),
		forwardRanges:    forwardRanges,
		reversedRanges:   reversedRanges,
		vertexProperties: newVertexPropertyManager(vertexPropertyTree),
		edgeProperties:   newEdgePropertyManager(edgePropertyTree),
		events:           events,
	}

	s.Vertices.owner = s
	s.Edges.owner = s

	return s, nil
}

/*
VertexProperties returns the Store's vertex-property manager.
*/
func (s *Store) VertexProperties() *VertexPropertyManager {
	return s.vertexProperties
}

/*
EdgeProperties returns the Store's edge-property manager.
*/
func (s *Store) EdgeProperties() *EdgePropertyManager {
	return s.edgeProperties
}

/*
ForwardRanges returns the Store's outbound edge-range manager, keyed
(vertex, type, update_datetime, neighbour) from the vertex's own point of
view.
*/
func (s *Store) ForwardRanges() *EdgeRangeManager {
	return s.forwardRanges
}

/*
ReversedRanges returns the Store's inbound edge-range manager, keyed
(vertex, type, update_datetime, neighbour) from the neighbour's point of
view.
*/
func (s *Store) ReversedRanges() *EdgeRangeManager {
	return s.reversedRanges
}

/*
Close releases the underlying kv.Store.
*/
func (s *Store) Close() error {
	return wrapDatastore(s.kvStore.Close())
}
