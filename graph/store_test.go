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
	"testing"
	"time"

	"github.com/krotik/vgraph/codec"
	"github.com/krotik/vgraph/kv/memkv"
)

func newTestStore(t *testing.T) *Store {
	s, err := New(memkv.New())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustDate(t *testing.T, s string) time.Time {
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return dt.UTC()
}

// S1: create/get.
func TestVertexCreateGet(t *testing.T) {
	s := newTestStore(t)

	u1 := NewVertexID()
	u2 := NewVertexID()

	if err := s.Vertices.Create(Vertex{ID: u1, Type: "person"}); err != nil {
		t.Error(err)
		return
	}

	typ, ok, err := s.Vertices.Get(u1)
	if err != nil || !ok || typ != "person" {
		t.Error("Unexpected result:", typ, ok, err)
		return
	}

	if exists, err := s.Vertices.Exists(u1); err != nil || !exists {
		t.Error("Expected u1 to exist")
		return
	}

	if exists, err := s.Vertices.Exists(u2); err != nil || exists {
		t.Error("Expected u2 to not exist")
		return
	}
}

// S2: edge set and traverse.
func TestEdgeSetAndTraverse(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	s.Vertices.Create(Vertex{ID: u1, Type: "person"})
	s.Vertices.Create(Vertex{ID: u2, Type: "thing"})

	d1 := mustDate(t, "2024-01-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}

	typ := "owns"
	it, err := s.forwardRanges.IterateForRange(u1, &typ, nil)
	if err != nil {
		t.Error(err)
		return
	}
	defer it.Close()

	var entries []EdgeRangeEntry
	for it.Next() {
		entry, err := it.Item()
		if err != nil {
			t.Error(err)
			return
		}
		entries = append(entries, entry)
	}
	if err := it.Error(); err != nil {
		t.Error(err)
		return
	}

	if len(entries) != 1 {
		t.Error("Expected exactly one entry, got", len(entries))
		return
	}
	if entries[0].First != u1 || entries[0].Type != "owns" || entries[0].Second != u2 || !entries[0].UpdateDatetime.Equal(d1) {
		t.Error("Unexpected entry:", entries[0])
	}
}

// S3: update replaces index.
func TestEdgeSetReplacesIndex(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	s.Vertices.Create(Vertex{ID: u1, Type: "person"})
	s.Vertices.Create(Vertex{ID: u2, Type: "thing"})

	d1 := mustDate(t, "2024-01-01T00:00:00Z")
	d2 := mustDate(t, "2024-06-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}
	if err := s.Edges.Set(u1, "owns", u2, d2); err != nil {
		t.Error(err)
		return
	}

	dt, ok, err := s.Edges.Get(u1, "owns", u2)
	if err != nil || !ok || !dt.Equal(d2) {
		t.Error("Unexpected result:", dt, ok, err)
		return
	}

	typ := "owns"

	forward, err := s.forwardRanges.IterateForRange(u1, &typ, nil)
	if err != nil {
		t.Error(err)
		return
	}
	assertSingleEntry(t, forward, u1, "owns", d2, u2)

	reversed, err := s.reversedRanges.IterateForRange(u2, &typ, nil)
	if err != nil {
		t.Error(err)
		return
	}
	assertSingleEntry(t, reversed, u2, "owns", d2, u1)
}

func assertSingleEntry(t *testing.T, it *EdgeRangeIterator, first VertexID, typ string, dt time.Time, second VertexID) {
	defer it.Close()

	var entries []EdgeRangeEntry
	for it.Next() {
		entry, err := it.Item()
		if err != nil {
			t.Error(err)
			return
		}
		entries = append(entries, entry)
	}
	if err := it.Error(); err != nil {
		t.Error(err)
		return
	}

	if len(entries) != 1 {
		t.Error("Expected exactly one entry, got", len(entries))
		return
	}
	e := entries[0]
	if e.First != first || e.Type != typ || e.Second != second || !e.UpdateDatetime.Equal(dt) {
		t.Error("Unexpected entry:", e)
	}
}

// S4: vertex cascade.
func TestVertexDeleteCascades(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	s.Vertices.Create(Vertex{ID: u1, Type: "person"})
	s.Vertices.Create(Vertex{ID: u2, Type: "thing"})

	d1 := mustDate(t, "2024-06-01T00:00:00Z")
	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}

	if err := s.vertexProperties.Set(u1, "name", "A"); err != nil {
		t.Error(err)
		return
	}
	if err := s.edgeProperties.Set(u1, "owns", u2, "k", 1); err != nil {
		t.Error(err)
		return
	}

	if err := s.Vertices.Delete(u1); err != nil {
		t.Error(err)
		return
	}

	if exists, _ := s.Vertices.Exists(u1); exists {
		t.Error("Expected u1 to be gone")
	}
	if _, ok, _ := s.Edges.Get(u1, "owns", u2); ok {
		t.Error("Expected edge to be gone")
	}

	var name string
	if ok, _ := s.vertexProperties.Get(u1, "name", &name); ok {
		t.Error("Expected vertex property to be gone")
	}
	var k int
	if ok, _ := s.edgeProperties.Get(u1, "owns", u2, "k", &k); ok {
		t.Error("Expected edge property to be gone")
	}

	typ := "owns"
	reversed, err := s.reversedRanges.IterateForRange(u2, &typ, nil)
	if err != nil {
		t.Error(err)
		return
	}
	if reversed.Next() {
		t.Error("Expected reversed index to be empty after cascade")
	}
	reversed.Close()

	if exists, _ := s.Vertices.Exists(u2); !exists {
		t.Error("Expected u2 to remain")
	}
}

// S5: multi-type multigraph.
func TestMultiTypeMultigraph(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	d1 := mustDate(t, "2024-01-01T00:00:00Z")
	d2 := mustDate(t, "2024-02-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}
	if err := s.Edges.Set(u1, "likes", u2, d2); err != nil {
		t.Error(err)
		return
	}

	it, err := s.forwardRanges.IterateForRange(u1, nil, nil)
	if err != nil {
		t.Error(err)
		return
	}
	defer it.Close()

	count := 0
	for it.Next() {
		if _, err := it.Item(); err != nil {
			t.Error(err)
			return
		}
		count++
	}
	if err := it.Error(); err != nil {
		t.Error(err)
		return
	}

	if count != 2 {
		t.Error("Expected 2 entries, got", count)
	}
}

// S6: property round-trip.
func TestVertexPropertyRoundTrip(t *testing.T) {
	s := newTestStore(t)

	u1 := NewVertexID()

	if err := s.vertexProperties.Set(u1, "age", 42); err != nil {
		t.Error(err)
		return
	}

	var age int
	ok, err := s.vertexProperties.Get(u1, "age", &age)
	if err != nil || !ok || age != 42 {
		t.Error("Unexpected result:", age, ok, err)
		return
	}

	if err := s.vertexProperties.Delete(u1, "age"); err != nil {
		t.Error(err)
		return
	}

	ok, err = s.vertexProperties.Get(u1, "age", &age)
	if err != nil || ok {
		t.Error("Expected property to be gone")
	}
}

// Boundary: iterate_for_range with high = MinDateTime yields empty in
// typed-bounded mode.
func TestIterateForRangeMinDateTimeEmpty(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	d1 := mustDate(t, "2024-01-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}

	typ := "owns"
	high := codec.MinDateTime

	it, err := s.forwardRanges.IterateForRange(u1, &typ, &high)
	if err != nil {
		t.Error(err)
		return
	}
	defer it.Close()

	if it.Next() {
		t.Error("Expected no rows when high = MinDateTime")
	}
}

// Edge delete cascades to its properties.
func TestEdgeDeleteCascades(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	d1 := mustDate(t, "2024-01-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}
	if err := s.edgeProperties.Set(u1, "owns", u2, "k", 1); err != nil {
		t.Error(err)
		return
	}

	if err := s.Edges.Delete(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}

	var k int
	if ok, _ := s.edgeProperties.Get(u1, "owns", u2, "k", &k); ok {
		t.Error("Expected edge property to be gone")
	}
}

// Idempotent set: setting the same (o, t, i, d) twice succeeds and leaves
// the edge's update_datetime at d.
func TestEdgeSetIdempotent(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()
	d1 := mustDate(t, "2024-01-01T00:00:00Z")

	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}
	if err := s.Edges.Set(u1, "owns", u2, d1); err != nil {
		t.Error(err)
		return
	}

	dt, ok, err := s.Edges.Get(u1, "owns", u2)
	if err != nil || !ok || !dt.Equal(d1) {
		t.Error("Unexpected result:", dt, ok, err)
	}
}
