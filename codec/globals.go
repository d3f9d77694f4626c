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
Package codec builds and parses the composite binary keys used by the
graph package's storage managers.

A key is a sequence of components appended to a buffer in a fixed order.
Every component is either fixed-width (Uuid, DateTime) or length-prefixed
with a single byte (Type, FixedLengthString), so a key's components are
uniquely recoverable and two keys sharing a structural prefix compare
lexicographically in component order - which is what lets the graph
package turn traversals into ordered range scans instead of secondary
indexes.
*/
package codec

import (
	"errors"
)

/*
MaxComponentLength is the largest number of bytes a length-prefixed
component (Type, FixedLengthString) may occupy, since the length prefix
is a single byte.
*/
const MaxComponentLength = 0xFF

/*
Component encode/decode errors.
*/
var (
	ErrValueTooLong  = errors.New("component value is too long to encode")
	ErrMalformedUUID = errors.New("malformed uuid component")
	ErrShortBuffer   = errors.New("buffer too short to decode component")
)
