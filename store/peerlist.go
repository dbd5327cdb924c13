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

// PeerList is the per-torrent aging population of peers: OT_POOLS_COUNT
// pools, each a Vector[Peer], plus the aggregate counters spec.md §3
// requires. Pool 0 is kept sorted by the 6-byte key; older pools lose that
// order once a peer is swap-removed from them and are searched linearly.
//
//	L1: peerCount  = Σ pools[i].Len()
//	L2: seedCount  = Σ seedCounts[i]
//	L3: seedCounts[i] <= pools[i].Len() for every i
//	L4: the 6-byte key is unique across all pools of one torrent
//
// A PeerList is only ever touched while its owning bucket's lock is held.
type PeerList struct {
	pools      []Vector[Peer]
	seedCounts []uint32

	base int64 // unix seconds this generation of pools started aging from

	peerCount uint32
	seedCount uint32
	downCount uint32
}

func newPeerList(poolsCount int, now int64) *PeerList {
	pl := &PeerList{
		pools:      make([]Vector[Peer], poolsCount),
		seedCounts: make([]uint32, poolsCount),
		base:       now,
	}

	for i := range pl.pools {
		pl.pools[i] = Vector[Peer]{compare: comparePeerByKey}
	}

	return pl
}

func (pl *PeerList) PeerCount() uint32 { return pl.peerCount }
func (pl *PeerList) SeedCount() uint32 { return pl.seedCount }
func (pl *PeerList) DownCount() uint32 { return pl.downCount }

// LeechCount is derived, never stored: leechers = peer_count - seed_count.
func (pl *PeerList) LeechCount() uint32 { return pl.peerCount - pl.seedCount }

// IsEmpty reports whether this peer list has aged to nothing: no peers,
// and no recorded completions. A torrent whose PeerList IsEmpty is a
// candidate for Store.Sweep to drop entirely.
func (pl *PeerList) IsEmpty() bool {
	return pl.peerCount == 0 && pl.downCount == 0
}

// clean is the single-torrent cleaner referenced throughout trackerlogic.c
// ("clean_single_torrent"): it rotates whole pools out as they age past
// rotationInterval, without ever touching a per-peer timer. Every
// rotation evicts the oldest pool (subtracting its peers from the
// aggregate counters) and inserts a fresh, empty pool at index 0.
func (pl *PeerList) clean(now int64, rotationInterval int64) {
	if rotationInterval <= 0 || pl.base > now {
		return
	}

	elapsed := (now - pl.base) / rotationInterval
	if elapsed <= 0 {
		return
	}

	n := int64(len(pl.pools))
	if elapsed > n {
		elapsed = n
	}

	for i := int64(0); i < elapsed; i++ {
		pl.rotateOnce()
	}

	pl.base += elapsed * rotationInterval
}

func (pl *PeerList) rotateOnce() {
	n := len(pl.pools)
	oldest := &pl.pools[n-1]

	pl.peerCount -= uint32(oldest.Len())
	pl.seedCount -= pl.seedCounts[n-1]

	copy(pl.pools[1:], pl.pools[:n-1])
	copy(pl.seedCounts[1:], pl.seedCounts[:n-1])

	pl.pools[0] = Vector[Peer]{compare: comparePeerByKey}
	pl.seedCounts[0] = 0
}
