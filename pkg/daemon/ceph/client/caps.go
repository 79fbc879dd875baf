/*
Copyright 2018 The Rook Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// AccessLevel is the ceph access level granted by a capability, either
// read-only or read-write.
type AccessLevel string

const (
	ReadOnly  AccessLevel = "r"
	ReadWrite AccessLevel = "rw"
)

// Complement returns the access level that conflicts with this one. A share
// is authorized at exactly one level, so granting one level always means
// revoking the other.
func (l AccessLevel) Complement() AccessLevel {
	if l == ReadOnly {
		return ReadWrite
	}
	return ReadOnly
}

// MonDefaultCaps is the monitor capability granted to every share user.
const MonDefaultCaps = "allow r"

// ErrCapConflict is returned when a capability token is both wanted and
// unwanted in the same reconciliation. That is a caller bug: the wanted and
// unwanted grants are always built from complementary access levels.
var ErrCapConflict = errors.New("wanted capability conflicts with unwanted capability")

// CapSet is the set of individual grant tokens composing one subsystem's
// capability string. Tokens are compared as exact strings; the ceph grammar
// inside a token is not interpreted.
type CapSet map[string]struct{}

// ParseCaps splits a comma separated capability string into its token set.
// An empty string yields an empty set. Duplicate tokens collapse.
func ParseCaps(caps string) CapSet {
	set := CapSet{}
	for _, token := range strings.Split(caps, ",") {
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// Add inserts a token into the set.
func (c CapSet) Add(token string) {
	c[token] = struct{}{}
}

// Discard removes a token from the set if present.
func (c CapSet) Discard(token string) {
	delete(c, token)
}

// Contains reports whether the exact token is in the set.
func (c CapSet) Contains(token string) bool {
	_, ok := c[token]
	return ok
}

// Format joins the tokens back into a capability string. The join order is
// sorted so the same set always formats to the same string, which keeps the
// committed caps reproducible and directly comparable in tests. Round trips
// through ParseCaps are stable as a set, not as the literal input string.
func (c CapSet) Format() string {
	tokens := make([]string, 0, len(c))
	for token := range c {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}

// ReconcileCaps converges an existing capability string so that it contains
// every token of the wanted grant and no token of the unwanted grant. All
// other pre-existing tokens are preserved verbatim. Removing an absent
// unwanted token and adding an already present wanted token are both no-ops,
// so the operation is idempotent. It is pure and performs no I/O.
func ReconcileCaps(existing, want, unwanted string) (string, error) {
	wantSet := ParseCaps(want)
	unwantedSet := ParseCaps(unwanted)
	for token := range unwantedSet {
		if wantSet.Contains(token) {
			return "", errors.Wrapf(ErrCapConflict, "token %q", token)
		}
	}

	set := ParseCaps(existing)
	for token := range unwantedSet {
		set.Discard(token)
	}
	for token := range wantSet {
		set.Add(token)
	}

	return set.Format(), nil
}

// MDSCaps builds the full mds capability for a share. The unconditional
// "allow r" is required so the client can browse to the share path.
func MDSCaps(level AccessLevel, path string) string {
	return fmt.Sprintf("allow r,%s", MDSPathToken(level, path))
}

// MDSPathToken builds the single path-scoped mds grant token.
func MDSPathToken(level AccessLevel, path string) string {
	return fmt.Sprintf("allow %s path=%s", level, path)
}

// OSDPoolToken builds the osd grant token scoping a pool and rados namespace.
func OSDPoolToken(level AccessLevel, pool, namespace string) string {
	return fmt.Sprintf("allow %s pool=%s namespace=%s", level, pool, namespace)
}
