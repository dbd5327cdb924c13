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

import "ottracker/util"

// maxPrecBit places the high bit of the shifted peer count within 3 bits
// of the top of a 32-bit word (MAXPRECBIT in trackerlogic.c), maximizing
// the precision of the fixed-point step below.
const maxPrecBit = uint32(1) << 29

// AnnounceSample is the result of SamplePeers: the torrent's current
// counts plus a jittered systematic sample of its peer population. Counts
// are always populated (even when no peers matched amount==0); Peers is
// nil when the torrent does not exist.
type AnnounceSample struct {
	Peers     []PeerKey
	SeedCount uint32
	PeerCount uint32
	Found     bool
}

// SamplePeers implements return_peers_for_torrent's selection algorithm:
// a single streaming pass that picks `amount` peers approximately
// uniformly at random from the union of pools, without ever materializing
// an index over the whole population. It does not filter out the
// requester (documented limitation, spec.md §4.F).
func (s *Store) SamplePeers(hash InfoHash, amount int) AnnounceSample {
	b := s.buckets.lockByHash(hash)
	defer b.unlock()

	idx, exact := b.torrents.Find(&Torrent{Hash: hash})
	if !exact {
		return AnnounceSample{}
	}

	pl := b.torrents.At(idx).PeerList

	result := AnnounceSample{
		SeedCount: pl.seedCount,
		PeerCount: pl.peerCount,
		Found:     true,
	}

	if pl.peerCount == 0 {
		return result
	}

	if uint32(amount) > pl.peerCount {
		amount = int(pl.peerCount)
	}

	if amount <= 0 {
		return result
	}

	n := pl.peerCount
	result.Peers = sampleFromPools(pl.pools, n, amount)

	return result
}

func sampleFromPools(pools []Vector[Peer], n uint32, amount int) []PeerKey {
	// Make fixed-point arithmetic as exact as possible: shift n left until
	// its high bit sits within 3 bits of the word's top.
	shiftedN := n
	shift := uint(0)

	for shiftedN&maxPrecBit == 0 {
		shiftedN <<= 1
		shift++
	}

	shiftedStep := shiftedN / uint32(amount)

	// Start somewhere in the middle of the population so the fixed-point
	// aliasing doesn't always miss the same peers.
	poolOffset := uint32(util.UnsafeIntn(int(n)))
	poolIndex := 0

	samples := make([]PeerKey, 0, amount)

	for i := 0; i < amount; i++ {
		hi := (uint32(i+1) * shiftedStep) >> shift
		lo := (uint32(i) * shiftedStep) >> shift
		diff := hi - lo

		if diff == 0 {
			diff = 1
		}

		poolOffset += 1 + uint32(util.UnsafeIntn(int(diff)))

		for poolOffset >= uint32(pools[poolIndex].Len()) {
			poolOffset -= uint32(pools[poolIndex].Len())
			poolIndex = (poolIndex + 1) % len(pools)
		}

		samples = append(samples, pools[poolIndex].At(int(poolOffset)).Key)
	}

	return samples
}
