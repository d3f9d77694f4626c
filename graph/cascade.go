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

import "github.com/krotik/common/logutil"

var cascadeLog = logutil.GetLogger("vgraph.graph.cascade")

/*
cascadeHandler is dispatched an event and its parameters by a Store's
cascadeManager. It is the reduced, fixed-function analogue of the
teacher's Rule interface: this engine has exactly two cascades
(vertex delete -> dependent edges and properties; edge delete -> its
properties), neither of which is user-pluggable, so there is no public
Rule registration surface - only the dispatch shape is kept.
*/
type cascadeHandler func(s *Store, event int, args ...interface{}) error

/*
cascadeManager fires graph events to the handlers registered for them,
the same event-dispatch shape as the teacher's graphRulesManager, scoped
down to the fixed set of cascades spec.md requires.
*/
type cascadeManager struct {
	handlers map[int][]cascadeHandler
}

func newCascadeManager() *cascadeManager {
	cm := &cascadeManager{handlers: make(map[int][]cascadeHandler)}

	cm.register(EventVertexDeleted, cascadeVertexDeleted)
	cm.register(EventEdgeDeleted, cascadeEdgeDeleted)

	return cm
}

func (cm *cascadeManager) register(event int, h cascadeHandler) {
	cm.handlers[event] = append(cm.handlers[event], h)
}

/*
fire dispatches event to every handler registered for it. It stops and
returns the first error encountered, in line with the design document's
cascade robustness note: "Cascade loops stop at the first error and
surface it; already-performed partial deletions are not rolled back."
*/
func (cm *cascadeManager) fire(s *Store, event int, args ...interface{}) error {
	for _, h := range cm.handlers[event] {
		if err := h(s, event, args...); err != nil {
			return err
		}
	}
	return nil
}

/*
cascadeVertexDeleted removes every vertex property and every edge
touching the deleted vertex, steps 2-4 of VertexManager.delete's cascade
protocol. Step 1 (removing the vertex row itself) has already happened
by the time this fires.
*/
func cascadeVertexDeleted(s *Store, event int, args ...interface{}) error {
	id := args[0].(VertexID)

	cascadeLog.Debug("cascade", nextCascadeID(), "vertex deleted", id)

	if err := s.vertexProperties.deleteOwner(id); err != nil {
		return err
	}

	forward, err := s.forwardRanges.IterateForOwner(id)
	if err != nil {
		return err
	}

	for forward.Next() {
		entry, err := forward.Item()
		if err != nil {
			forward.Close()
			return err
		}
		if err := s.Edges.Delete(entry.First, entry.Type, entry.Second, entry.UpdateDatetime); err != nil {
			forward.Close()
			return err
		}
	}
	if err := forward.Error(); err != nil {
		return err
	}

	reversed, err := s.reversedRanges.IterateForOwner(id)
	if err != nil {
		return err
	}

	for reversed.Next() {
		entry, err := reversed.Item()
		if err != nil {
			reversed.Close()
			return err
		}

		// The reversed index stores endpoints flipped: entry.First is the
		// inbound (deleted) vertex, entry.Second is the outbound one. The
		// edge-centric delete always wants (outbound, t, inbound).
		if err := s.Edges.Delete(entry.Second, entry.Type, entry.First, entry.UpdateDatetime); err != nil {
			reversed.Close()
			return err
		}
	}
	if err := reversed.Error(); err != nil {
		return err
	}

	return nil
}

/*
cascadeEdgeDeleted removes every property of a deleted edge, the last
step of EdgeManager.delete's cascade protocol.
*/
func cascadeEdgeDeleted(s *Store, event int, args ...interface{}) error {
	outbound := args[0].(VertexID)
	t := args[1].(string)
	inbound := args[2].(VertexID)

	cascadeLog.Debug("cascade", nextCascadeID(), "edge deleted", outbound, t, inbound)

	return s.edgeProperties.deleteOwner(outbound, t, inbound)
}
