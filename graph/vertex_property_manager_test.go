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

import "testing"

func TestVertexPropertyIterateForOwner(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()

	if err := s.vertexProperties.Set(u1, "name", "A"); err != nil {
		t.Fatal(err)
	}
	if err := s.vertexProperties.Set(u1, "age", 42); err != nil {
		t.Fatal(err)
	}
	if err := s.vertexProperties.Set(u2, "name", "B"); err != nil {
		t.Fatal(err)
	}

	it, err := s.vertexProperties.IterateForOwner(u1)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	names := map[string]bool{}
	for it.Next() {
		entry, err := it.Item()
		if err != nil {
			t.Fatal(err)
		}
		names[entry.Name] = true
	}
	if err := it.Error(); err != nil {
		t.Fatal(err)
	}

	if !names["name"] || !names["age"] || len(names) != 2 {
		t.Error("Unexpected property set:", names)
	}
}

func TestVertexPropertyDeleteOwnerScopedToVertex(t *testing.T) {
	s := newTestStore(t)

	u1, u2 := NewVertexID(), NewVertexID()

	if err := s.vertexProperties.Set(u1, "name", "A"); err != nil {
		t.Fatal(err)
	}
	if err := s.vertexProperties.Set(u2, "name", "B"); err != nil {
		t.Fatal(err)
	}

	if err := s.vertexProperties.deleteOwner(u1); err != nil {
		t.Fatal(err)
	}

	var name string
	if ok, _ := s.vertexProperties.Get(u1, "name", &name); ok {
		t.Error("Expected u1's property to be gone")
	}
	if ok, _ := s.vertexProperties.Get(u2, "name", &name); !ok || name != "B" {
		t.Error("Expected u2's property to remain untouched")
	}
}
