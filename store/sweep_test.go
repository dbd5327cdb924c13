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

func TestSweepEvictsAgedOutTorrentWithoutBeingScraped(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.PoolRotationInterval = time.Second
	cfg.PoolsCount = 4

	s := NewStore(cfg, WithClock(clock))
	hash := testHash(70)

	peer := NewPeer([4]byte{10, 2, 0, 1}, 6881, FlagSeeding)
	if _, err := s.AddPeer(hash, peer, false); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	clock.advance(5)
	s.Sweep()

	b := s.buckets.lockByHash(hash)
	_, exact := b.torrents.Find(&Torrent{Hash: hash})
	b.unlock()

	if exact {
		t.Fatal("expected Sweep to have evicted the aged-out torrent from its bucket")
	}
}

func TestSweepLeavesActiveTorrentInPlace(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.PoolRotationInterval = time.Hour
	cfg.PoolsCount = 4

	s := NewStore(cfg, WithClock(clock))
	hash := testHash(71)

	peer := NewPeer([4]byte{10, 2, 0, 2}, 6881, FlagSeeding)
	if _, err := s.AddPeer(hash, peer, false); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	s.Sweep()

	counts := s.Scrape(hash)
	if !counts.Found || counts.Seed != 1 {
		t.Fatalf("expected the still-active torrent to survive a sweep, got %+v", counts)
	}
}

func TestSweepWalksMultipleBucketsIndependently(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.BucketCount = 4
	cfg.PoolRotationInterval = time.Second
	cfg.PoolsCount = 4

	s := NewStore(cfg, WithClock(clock))

	dying := testHash(72)
	alive := testHash(73)
	// testHash only sets the last byte; set the top bits so the two
	// torrents land in different buckets (0 and 3 of 4).
	alive[0] = 0xc0

	if _, err := s.AddPeer(dying, NewPeer([4]byte{10, 2, 0, 3}, 6881, FlagSeeding), false); err != nil {
		t.Fatalf("AddPeer (dying): %v", err)
	}

	clock.advance(5)

	if _, err := s.AddPeer(alive, NewPeer([4]byte{10, 2, 0, 4}, 6881, FlagSeeding), false); err != nil {
		t.Fatalf("AddPeer (alive): %v", err)
	}

	s.Sweep()

	if counts := s.Scrape(dying); counts.Found {
		t.Fatalf("expected the aged-out torrent to be gone, got %+v", counts)
	}

	if counts := s.Scrape(alive); !counts.Found || counts.Seed != 1 {
		t.Fatalf("expected the freshly-added torrent to survive, got %+v", counts)
	}
}
