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

	"github.com/google/uuid"
)

/*
VertexID identifies a Vertex. It is a 16-byte UUID, encoded on the wire
by codec.EncodeUUID/DecodeUUID.
*/
type VertexID = uuid.UUID

/*
NewVertexID generates a fresh random VertexID.
*/
func NewVertexID() VertexID {
	return uuid.New()
}

/*
Vertex is a node in the directed multigraph: a UUID and a Type.
*/
type Vertex struct {
	ID   VertexID
	Type string
}

/*
Edge is a directed, typed arc between two vertices, carrying the instant
it was last written. Multiple edges between the same pair of vertices
are permitted only if they have distinct Types.
*/
type Edge struct {
	OutboundID     VertexID
	Type           string
	InboundID      VertexID
	UpdateDatetime time.Time
}

/*
EdgeRangeEntry is one row of a forward or reversed edge-range index: an
edge viewed from one of its endpoints ("first"), ordered by type and
update time, pointing at its other endpoint ("second").
*/
type EdgeRangeEntry struct {
	First          VertexID
	Type           string
	UpdateDatetime time.Time
	Second         VertexID
}
