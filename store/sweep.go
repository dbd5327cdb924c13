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

// Sweep walks every bucket, one at a time under its own lock, rotating
// each torrent's PeerList pools forward and dropping any torrent whose
// PeerList has aged to empty. AddPeer and Scrape only run a torrent's
// PeerList.clean when that exact torrent happens to be looked up again;
// without Sweep driving the walk on a timer (opentracker's un-retrieved
// ot_clean.c), a swarm nobody scrapes after it dies out would sit in its
// bucket forever.
func (s *Store) Sweep() {
	now := s.now()
	rotation := int64(s.cfg.PoolRotationInterval.Seconds())

	for i := 0; i < s.buckets.count(); i++ {
		b := s.buckets.lock(i)

		for j := 0; j < b.torrents.Len(); {
			torrent := b.torrents.At(j)
			torrent.PeerList.clean(now, rotation)

			if torrent.PeerList.IsEmpty() {
				b.torrents.Remove(j, true)
				continue
			}

			j++
		}

		b.unlock()
	}
}
