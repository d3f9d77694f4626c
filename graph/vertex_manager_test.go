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
	"strings"
	"testing"
)

func TestVertexIterateForRange(t *testing.T) {
	s := newTestStore(t)

	ids := make([]VertexID, 3)
	for i := range ids {
		ids[i] = NewVertexID()
		if err := s.Vertices.Create(Vertex{ID: ids[i], Type: "thing"}); err != nil {
			t.Fatal(err)
		}
	}

	it, err := s.Vertices.IterateForRange(VertexID{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	seen := 0
	for it.Next() {
		v, err := it.Item()
		if err != nil {
			t.Fatal(err)
		}
		if v.Type != "thing" {
			t.Error("Unexpected type:", v.Type)
		}
		seen++
	}
	if err := it.Error(); err != nil {
		t.Fatal(err)
	}

	if seen != 3 {
		t.Error("Expected 3 vertices, got", seen)
	}
}

func TestVertexCreateTypeTooLong(t *testing.T) {
	s := newTestStore(t)

	u1 := NewVertexID()
	longType := strings.Repeat("a", 256)

	err := s.Vertices.Create(Vertex{ID: u1, Type: longType})
	if err == nil {
		t.Error("Expected an error")
		return
	}

	ge, ok := err.(*Error)
	if !ok || ge.Type != ErrValueTooLong {
		t.Error("Unexpected error:", err)
	}
}

func TestVertexCreateEmptyTypeAllowed(t *testing.T) {
	s := newTestStore(t)

	u1 := NewVertexID()

	if err := s.Vertices.Create(Vertex{ID: u1, Type: ""}); err != nil {
		t.Error(err)
		return
	}

	typ, ok, err := s.Vertices.Get(u1)
	if err != nil || !ok || typ != "" {
		t.Error("Unexpected result:", typ, ok, err)
	}
}

func TestVertexDeleteOfMissingVertexIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	u1 := NewVertexID()

	if err := s.Vertices.Delete(u1); err != nil {
		t.Error(err)
	}
	if err := s.Vertices.Delete(u1); err != nil {
		t.Error(err)
	}
}
