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

package store

import (
	"bytes"
	"testing"
)

func TestFullscrapeMatchesFullscrapeLinear(t *testing.T) {
	s := NewStore(DefaultConfig())

	for i := byte(1); i <= 20; i++ {
		hash := testHash(i)
		peer := NewPeer([4]byte{10, 2, 0, i}, 6881, FlagSeeding)

		if _, err := s.AddPeer(hash, peer, false); err != nil {
			t.Fatalf("AddPeer: %v", err)
		}
	}

	var chunked bytes.Buffer
	for _, chunk := range s.Fullscrape() {
		chunked.Write(chunk)
	}

	linear := s.FullscrapeLinear()

	if chunked.Len() != len(linear) {
		t.Fatalf("chunked dump is %d bytes, linear dump is %d bytes", chunked.Len(), len(linear))
	}

	if chunked.String() != string(linear) {
		t.Fatal("chunked and linear fullscrape dumps diverge")
	}
}

func TestFullscrapeEmptyStoreStillHasEnvelope(t *testing.T) {
	s := NewStore(DefaultConfig())

	chunks := s.Fullscrape()
	if len(chunks) != 1 {
		t.Fatalf("expected a single chunk for an empty store, got %d", len(chunks))
	}

	if len(chunks[0]) == 0 {
		t.Fatal("expected the header/footer envelope to still be written")
	}
}

func TestFullscrapeSkipsTorrentsWithNoPeersOrDownloads(t *testing.T) {
	s := NewStore(DefaultConfig())
	hash := testHash(70)

	peer := NewPeer([4]byte{10, 3, 0, 1}, 6881, FlagSeeding)
	if _, err := s.AddPeer(hash, peer, false); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	s.RemovePeer(hash, peer)

	var buf bytes.Buffer
	for _, chunk := range s.Fullscrape() {
		buf.Write(chunk)
	}

	if bytes.Contains(buf.Bytes(), hash[:]) {
		t.Fatal("expected a torrent with no peers and no downloads to be skipped")
	}
}
