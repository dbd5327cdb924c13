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

import "errors"

// ErrRejected is returned by AddPeer when the access list denies the
// infohash (spec.md §4.E step 2). The HTTP announce handler answers it with
// a bencoded failure reply whose reason includes this error's text.
var ErrRejected = errors.New("store: infohash rejected by access list")

// AddPeer is the announce entry point (trackerlogic.c: add_peer_to_torrent).
// fromSync marks a peer injected from a replication stream rather than a
// live announce: such peers land in pool 1 so they don't pollute the "live"
// generation (spec.md §4.E step 5).
func (s *Store) AddPeer(hash InfoHash, peer Peer, fromSync bool) (*Torrent, error) {
	peer.Flags = NormalizeFlags(peer.Flags)

	b := s.buckets.lockByHash(hash)
	defer b.unlock()

	if s.access != nil && !s.access.IsAdmitted(hash) {
		return nil, ErrRejected
	}

	torrent, existed := b.torrents.FindOrInsert(Torrent{Hash: hash})
	if !existed {
		torrent.PeerList = newPeerList(s.cfg.PoolsCount, s.now())
	} else {
		torrent.PeerList.clean(s.now(), int64(s.cfg.PoolRotationInterval.Seconds()))
	}

	pl := torrent.PeerList
	basePool := 0

	if fromSync {
		if _, exact := pl.pools[0].Find(&peer); exact {
			return torrent, nil
		}

		basePool = 1
	}

	pool := &pl.pools[basePool]

	var peerDest *Peer

	existed = false
	if basePool != 0 {
		// Older pools lose key order on swap-removal: look the peer up
		// linearly before falling back to an insert.
		if idx, ok := findPeer(pool, peer.Key, false); ok {
			peerDest, existed = pool.At(idx), true
		}
	}

	if !existed {
		peerDest, existed = pool.FindOrInsert(peer)
	}

	if !existed {
		pl.peerCount++

		if peer.Completed() {
			pl.downCount++
		}

		if peer.Seeding() {
			pl.seedCounts[basePool]++
			pl.seedCount++
		}

		// A peer appears in at most one pool (L4): now that it lives in
		// basePool, purge it from every older pool.
		for i := basePool + 1; i < len(pl.pools); i++ {
			wasSeeder, ok := removePeerFromPool(&pl.pools[i], peer.Key, false)
			if !ok {
				continue
			}

			if wasSeeder {
				pl.seedCounts[i]--
				pl.seedCount--
			}

			pl.peerCount--

			break
		}

		return torrent, nil
	}

	wasSeeding := peerDest.Seeding()
	nowSeeding := peer.Seeding()

	if wasSeeding && !nowSeeding {
		pl.seedCounts[basePool]--
		pl.seedCount--
	}

	if !wasSeeding && nowSeeding {
		pl.seedCounts[basePool]++
		pl.seedCount++
	}

	if !peerDest.Completed() && peer.Completed() {
		pl.downCount++
	}

	// A stored COMPLETED sticks: a subsequent announce can never retract it.
	if peerDest.Completed() {
		peer.Flags |= FlagCompleted
	}

	*peerDest = peer

	return torrent, nil
}

// removePeerFromPool removes the peer keyed by key from v if present,
// reporting whether it was a seeder and whether anything was removed.
// preserveOrder must be true for pool 0 (binary-searched every announce)
// and false for every other pool, which is searched linearly and
// swap-removed from.
func removePeerFromPool(v *Vector[Peer], key PeerKey, preserveOrder bool) (wasSeeder, removed bool) {
	idx, exact := findPeer(v, key, preserveOrder)
	if !exact {
		return false, false
	}

	wasSeeder = v.At(idx).Seeding()
	v.Remove(idx, preserveOrder)

	return wasSeeder, true
}

// findPeer locates key in v: by binary search when v is kept sorted (pool
// 0), by a linear scan otherwise.
func findPeer(v *Vector[Peer], key PeerKey, sorted bool) (int, bool) {
	if sorted {
		return v.Find(&Peer{Key: key})
	}

	for i := 0; i < v.Len(); i++ {
		if v.At(i).Key == key {
			return i, true
		}
	}

	return 0, false
}

// RemoveCounts is the post-removal snapshot used to format the "stopped"
// reply: a zero value (the lookup-miss case) formats identically to a
// torrent that genuinely has no peers, per spec.md §4.E's synthetic
// zero-peer record rule.
type RemoveCounts struct {
	SeedCount uint32
	PeerCount uint32
}

// RemovePeer is the "stopped" announce entry point (trackerlogic.c:
// remove_peer_from_torrent). It returns the post-removal counts needed to
// format a reply; if the torrent does not exist, it returns the zero
// value so downstream formatting never has to special-case an absent
// torrent (spec.md §4.E).
func (s *Store) RemovePeer(hash InfoHash, peer Peer) RemoveCounts {
	b := s.buckets.lockByHash(hash)
	defer b.unlock()

	idx, exact := b.torrents.Find(&Torrent{Hash: hash})
	if !exact {
		return RemoveCounts{}
	}

	pl := b.torrents.At(idx).PeerList

	for i := range pl.pools {
		wasSeeder, removed := removePeerFromPool(&pl.pools[i], peer.Key, i == 0)
		if !removed {
			continue
		}

		if wasSeeder {
			pl.seedCounts[i]--
			pl.seedCount--
		}

		pl.peerCount--

		break
	}

	return RemoveCounts{SeedCount: pl.seedCount, PeerCount: pl.peerCount}
}
