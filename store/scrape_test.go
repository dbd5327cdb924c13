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
	"testing"
	"time"
)

func TestScrapeUnknownTorrent(t *testing.T) {
	s := NewStore(DefaultConfig())

	if counts := s.Scrape(testHash(60)); counts.Found {
		t.Fatalf("expected Found=false for an unknown torrent, got %+v", counts)
	}
}

func TestScrapeSeederAndLeecherCounts(t *testing.T) {
	s := NewStore(DefaultConfig())
	hash := testHash(61)

	seeder := NewPeer([4]byte{10, 1, 0, 1}, 6881, FlagSeeding)
	leecher := NewPeer([4]byte{10, 1, 0, 2}, 6881, 0)

	if _, err := s.AddPeer(hash, seeder, false); err != nil {
		t.Fatalf("AddPeer (seeder): %v", err)
	}

	if _, err := s.AddPeer(hash, leecher, false); err != nil {
		t.Fatalf("AddPeer (leecher): %v", err)
	}

	counts := s.Scrape(hash)
	if !counts.Found || counts.Seed != 1 || counts.Leech != 1 {
		t.Fatalf("unexpected scrape counts: %+v", counts)
	}
}

func TestScrapeDropsEmptyTorrentAfterCleaning(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.PoolRotationInterval = time.Second
	cfg.PoolsCount = 4

	s := NewStore(cfg, WithClock(clock))
	hash := testHash(62)

	peer := NewPeer([4]byte{10, 1, 0, 3}, 6881, FlagSeeding)
	if _, err := s.AddPeer(hash, peer, false); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	// Age every pool out: PoolsCount generations at 1 second each.
	clock.advance(5)

	if counts := s.Scrape(hash); counts.Found {
		t.Fatalf("expected the torrent to have aged out entirely, got %+v", counts)
	}
}
