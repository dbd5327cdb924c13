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

// Stats is a population-wide snapshot smeared across bucket locks taken
// one at a time (spec.md §5: "readers of counters therefore see a smear
// of snapshots across the population - this is accepted").
type Stats struct {
	Torrents uint64
	Peers    uint64
	Seeders  uint64
}

// Leechers is derived, never stored: leechers = peers - seeders.
func (st Stats) Leechers() uint64 { return st.Peers - st.Seeders }

// Stats walks every bucket, one at a time, summing torrent/peer/seed
// counts for the metrics collector (spec.md §4.K).
func (s *Store) Stats() Stats {
	var st Stats

	for i := 0; i < s.buckets.count(); i++ {
		b := s.buckets.lock(i)

		st.Torrents += uint64(b.torrents.Len())

		for j := 0; j < b.torrents.Len(); j++ {
			pl := b.torrents.At(j).PeerList
			st.Peers += uint64(pl.peerCount)
			st.Seeders += uint64(pl.seedCount)
		}

		b.unlock()
	}

	return st
}
