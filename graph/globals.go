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
Package graph is the core of the graph storage engine: composite-key
managers for vertices, edges, time-ordered edge ranges and properties,
built on the ordered kv.Store primitives in package kv.

Tree inventory

Six named trees make up one graph store's namespace:

	vertices               UUID                                  -> encoded Type
	edges                  UUID . Type . UUID                     -> encoded DateTime
	edge_ranges            UUID . Type . DateTime . UUID          -> empty
	reversed_edge_ranges   UUID . Type . DateTime . UUID          -> empty
	vertex_properties      UUID . FixedLengthString               -> JSON bytes
	edge_properties        UUID . Type . UUID . FixedLengthString -> JSON bytes

Managers

VertexManager and EdgeManager own the first two trees and orchestrate
the cascade invariants; EdgeRangeManager is one orientation-tagged type
with two instances, one per range tree; VertexPropertyManager and
EdgePropertyManager are thin name->JSON stores over the last two trees.

Store

Store wires every manager together against one kv.Store, the same way
the teacher's graph.Manager wires its storage managers together against
one graphstorage.Storage.
*/
package graph

/*
Tree names, matching the tree inventory table in the design document.
*/
const (
	TreeVertices           = "vertices"
	TreeEdges              = "edges"
	TreeEdgeRanges         = "edge_ranges"
	TreeReversedEdgeRanges = "reversed_edge_ranges"
	TreeVertexProperties   = "vertex_properties"
	TreeEdgeProperties     = "edge_properties"
)

/*
Graph events, dispatched to the cascade rule. Mirrors the teacher's
EventNodeDeleted/EventEdgeDeleted constants, reduced to exactly the
events this engine's fixed cascade protocol needs.
*/
const (
	// EventVertexDeleted fires after a vertex row has been removed, before
	// its dependent properties and edges are cascaded away.
	// Parameters: deleted vertex id.
	EventVertexDeleted = iota + 1

	// EventEdgeDeleted fires after an edge row and its range index rows
	// have been removed, before its properties are cascaded away.
	// Parameters: outbound id, edge type, inbound id.
	EventEdgeDeleted
)
