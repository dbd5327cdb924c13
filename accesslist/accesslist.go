/*
 * This file is part of ottracker.
 *
 * ottracker is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * ottracker is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with ottracker.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package accesslist implements the tracker's swarm admission list:
// a sorted set of infohashes read from a flat file, consulted on every
// announce either as a whitelist or a blacklist. It is grounded on
// ot_accesslist.c's accesslist_readfile/accesslist_addentry/
// accesslist_hashisvalid.
package accesslist

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jinzhu/copier"

	"ottracker/log"
	"ottracker/store"
)

// Mode selects how List.IsAdmitted interprets list membership.
type Mode int

const (
	// Off admits every hash; List.IsAdmitted is always true.
	Off Mode = iota
	// White admits only hashes present in the list.
	White
	// Black admits every hash except those present in the list.
	Black
)

// List is a sorted set of infohashes loaded from a flat file, safe for
// concurrent use. Reload() replaces the set atomically under a mutex; a
// read under RLock never observes a half-built list.
type List struct {
	mu     sync.RWMutex
	mode   Mode
	path   string
	hashes []store.InfoHash
}

// New returns a List in the given mode. If path is empty, Reload is a
// no-op and every hash is treated as absent from the list (so White mode
// with an empty path admits nothing, and Black mode admits everything) -
// matching opentracker's behaviour when no -A/-whitelist file is given.
func New(mode Mode, path string) *List {
	return &List{mode: mode, path: path}
}

// IsAdmitted reports whether hash may be announced/scraped, per Mode.
// A nil *List (no access control configured) admits everything.
func (l *List) IsAdmitted(hash store.InfoHash) bool {
	if l == nil || l.mode == Off {
		return true
	}

	l.mu.RLock()
	present := l.contains(hash)
	l.mu.RUnlock()

	if l.mode == Black {
		return !present
	}

	return present
}

func (l *List) contains(hash store.InfoHash) bool {
	n := len(l.hashes)
	i := sort.Search(n, func(i int) bool {
		return l.hashes[i].Compare(hash) >= 0
	})

	return i < n && l.hashes[i] == hash
}

// Reload re-reads the access list file from disk, replacing the current
// set. It is the SIGHUP handler: opentracker re-reads the same path on
// every SIGHUP rather than watching the filesystem.
//
// Malformed lines are handled exactly as accesslist_readfile does, carry
// quirk included: ot_accesslist.c declares `ot_hash infohash` once, outside
// its per-line while loop, and decodes each of the first 40 characters as a
// hex nibble pair directly into that single buffer; a pair containing a
// non-hex character is skipped rather than zeroed, so the byte is left at
// whatever the *previous* accepted (or even rejected-but-partially-decoded)
// line wrote there. Reload reproduces this by decoding into one InfoHash
// held across the whole scan, not a fresh zero value per line. The line is
// only discarded if character 40 (the one immediately after the would-be
// hex digits) is ALSO a hex digit - i.e. the line looked like it had a 41st
// hex digit running on, rather than a 40-character hash followed by a
// delimiter. A line of exactly 40 valid hex digits with nothing after it is
// accepted: bufio.Scanner has already stripped the newline, so there is no
// 41st character to test.
func (l *List) Reload() error {
	if l.path == "" {
		l.mu.Lock()
		l.hashes = nil
		l.mu.Unlock()

		return nil
	}

	f, err := os.Open(l.path)
	if err != nil {
		log.Warning.Printf("accesslist: can't open %s (will try again on next reload): %v", l.path, err)
		return err
	}
	defer f.Close()

	var hashes []store.InfoHash

	// h persists across scanner.Scan() iterations, mirroring ot_hash
	// infohash's single declaration outside accesslist_readfile's while
	// loop: non-hex nibble pairs carry the previous line's byte forward
	// instead of resetting to zero.
	var h store.InfoHash

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if decodeLine(&h, line) {
			hashes = append(hashes, h)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("accesslist: reading %s: %w", l.path, err)
	}

	sort.Slice(hashes, func(i, j int) bool { return hashes[i].Compare(hashes[j]) < 0 })
	hashes = dedupe(hashes)

	l.mu.Lock()
	l.hashes = hashes
	l.mu.Unlock()

	log.Info.Printf("accesslist: loaded %d entries from %s", len(hashes), l.path)

	return nil
}

// decodeLine decodes line's first 40 characters as 20 hex nibble pairs
// into h in place, leaving a byte untouched (carrying whatever h already
// held) wherever a pair contains a non-hex character. It reports whether
// the line is accepted as a complete entry.
func decodeLine(h *store.InfoHash, line string) bool {
	for i := 0; i < store.InfoHashSize; i++ {
		if 2*i+1 >= len(line) {
			return false
		}

		hi, hiOK := fromHex(line[2*i])
		lo, loOK := fromHex(line[2*i+1])

		if hiOK && loOK {
			h[i] = hi<<4 | lo
		}
	}

	if len(line) <= 40 {
		return true
	}

	if _, isHex := fromHex(line[40]); isHex {
		return false
	}

	return true
}

func fromHex(c byte) (v byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func dedupe(hashes []store.InfoHash) []store.InfoHash {
	if len(hashes) == 0 {
		return hashes
	}

	out := hashes[:1]

	for _, h := range hashes[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}

	return out
}

// Snapshot returns an independent copy of the currently loaded hashes, so
// a caller can inspect the list without holding the list's own lock.
func (l *List) Snapshot() []store.InfoHash {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []store.InfoHash
	if err := copier.Copy(&out, &l.hashes); err != nil {
		// copier only fails on type mismatches between identical slice
		// element types, which cannot happen here; fall back to a plain
		// copy rather than propagating an error from a getter.
		out = append([]store.InfoHash(nil), l.hashes...)
	}

	return out
}
