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
Package badgerkv provides a disk-backed kv.Store over
github.com/dgraph-io/badger/v4, an embedded ordered LSM key-value store.
Badger has no native concept of multiple named trees, so each kv.Tree
namespaces its keys with a one-byte tree id prepended inside one
badger.DB - the same technique pgunn-dvid's storage package uses to
fold a Context and a type-specific index into one flat ordered key
space.
*/
package badgerkv

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/krotik/common/logutil"

	"github.com/krotik/vgraph/kv"
)

var log = logutil.GetLogger("vgraph.kv.badgerkv")

/*
compressionByName maps the kv.Config.Compression algorithm name to a
badger CompressionType. An unknown name falls back to no compression.
*/
func compressionByName(name *string) options.CompressionType {
	if name == nil {
		return options.None
	}

	switch *name {
	case "snappy":
		return options.Snappy
	case "zstd":
		return options.ZSTD
	default:
		log.Warning("Unknown compression algorithm, falling back to none:", *name)
		return options.None
	}
}

/*
Store is a disk-backed kv.Store. Use Open to create one.
*/
type Store struct {
	db    *badger.DB
	trees map[string]byte
	next  byte
}

/*
Open opens (creating if necessary) a badger database at dir with the
given configuration.
*/
func Open(dir string, cfg kv.Config) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Compression = compressionByName(cfg.Compression)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Store{db: db, trees: make(map[string]byte), next: 1}, nil
}

/*
treeID returns the one-byte id assigned to name, assigning a fresh one
on first use. Ids are assigned in registration order and are stable for
the lifetime of the Store, which is sufficient for the small, fixed
tree inventory this module uses (at most six trees).
*/
func (s *Store) treeID(name string) (byte, error) {
	if id, ok := s.trees[name]; ok {
		return id, nil
	}

	if s.next == 0 {
		return 0, fmt.Errorf("badgerkv: too many trees opened")
	}

	id := s.next
	s.trees[name] = id
	s.next++

	return id, nil
}

func namespace(id byte, key []byte) []byte {
	b := make([]byte, 1+len(key))
	b[0] = id
	copy(b[1:], key)
	return b
}

/*
Tree returns the named tree, assigning it a fresh namespace prefix on
first use.
*/
func (s *Store) Tree(name string) (kv.Tree, error) {
	id, err := s.treeID(name)
	if err != nil {
		return nil, err
	}

	return &Tree{store: s, name: name, id: id}, nil
}

/*
NewBatch starts a badger write batch spanning every tree in this store.
Since every tree lives inside one badger.DB, a Batch.Commit here is, in
fact, fully atomic - stronger than kv.Batch promises, but the graph
package's cascade error handling never depends on that, since other
kv.Store implementations (e.g. kv/memkv) are not.
*/
func (s *Store) NewBatch() kv.Batch {
	return &batch{store: s, wb: s.db.NewWriteBatch()}
}

/*
Close closes the underlying badger database.
*/
func (s *Store) Close() error {
	return s.db.Close()
}

type batch struct {
	store *Store
	wb    *badger.WriteBatch
	err   error
}

func (b *batch) Put(tree string, key, value []byte) {
	if b.err != nil {
		return
	}

	id, err := b.store.treeID(tree)
	if err != nil {
		b.err = err
		return
	}

	b.err = b.wb.Set(namespace(id, key), value)
}

func (b *batch) Delete(tree string, key []byte) {
	if b.err != nil {
		return
	}

	id, err := b.store.treeID(tree)
	if err != nil {
		b.err = err
		return
	}

	b.err = b.wb.Delete(namespace(id, key))
}

func (b *batch) Commit() error {
	if b.err != nil {
		b.wb.Cancel()
		return b.err
	}

	return b.wb.Flush()
}

/*
Tree is a badger-backed kv.Tree: one namespace prefix within a shared
badger.DB.
*/
type Tree struct {
	store *Store
	name  string
	id    byte
}

func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) key(k []byte) []byte {
	return namespace(t.id, k)
}

func (t *Tree) Get(key []byte) ([]byte, error) {
	var value []byte

	err := t.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(t.key(key))
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}

		return item.Value(func(v []byte) error {
			value = append([]byte(nil), v...)
			return nil
		})
	})

	return value, err
}

func (t *Tree) Put(key, value []byte) error {
	return t.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(t.key(key), value)
	})
}

func (t *Tree) Delete(key []byte) error {
	return t.store.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(t.key(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (t *Tree) Range(start []byte) (kv.Iterator, error) {
	return t.iterate(t.key(start), []byte{t.id})
}

func (t *Tree) ScanPrefix(prefix []byte) (kv.Iterator, error) {
	full := t.key(prefix)
	return t.iterate(full, full)
}

/*
iterate collects every item at or after seek whose key is within this
tree's namespace and begins with filterPrefix, copying them out before
returning so the iterator does not hold the badger transaction open for
its lifetime - the same "snapshot up front" trade-off kv/memkv makes,
traded here against badger's recommendation to keep transactions short.
*/
func (t *Tree) iterate(seek, filterPrefix []byte) (kv.Iterator, error) {
	var items []kv.KeyValue

	err := t.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{t.id}

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(filterPrefix); it.Next() {
			badgerItem := it.Item()

			k := badgerItem.KeyCopy(nil)

			v, err := badgerItem.ValueCopy(nil)
			if err != nil {
				return err
			}

			items = append(items, kv.KeyValue{Key: k[1:], Value: v})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &treeIterator{items: items, pos: -1}, nil
}

type treeIterator struct {
	items []kv.KeyValue
	pos   int
}

func (it *treeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.items)
}

func (it *treeIterator) Item() kv.KeyValue {
	return it.items[it.pos]
}

func (it *treeIterator) Error() error {
	return nil
}

func (it *treeIterator) Close() {
}
