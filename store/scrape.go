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

// ScrapeCounts is a single torrent's scrape-visible state: seeders,
// lifetime download count, and leechers (derived as peerCount-seedCount,
// never stored separately).
type ScrapeCounts struct {
	Seed  uint32
	Down  uint32
	Leech uint32
	Found bool
}

// Scrape implements return_udp_scrape_for_torrent / the per-hash loop in
// return_tcp_scrape_for_torrent: the single-torrent cleaner runs before
// counters are read, and if that cleaning leaves the torrent empty, it is
// dropped from its bucket and reported absent (spec.md §4.G).
func (s *Store) Scrape(hash InfoHash) ScrapeCounts {
	b := s.buckets.lockByHash(hash)
	defer b.unlock()

	idx, exact := b.torrents.Find(&Torrent{Hash: hash})
	if !exact {
		return ScrapeCounts{}
	}

	torrent := b.torrents.At(idx)
	torrent.PeerList.clean(s.now(), int64(s.cfg.PoolRotationInterval.Seconds()))

	if torrent.PeerList.IsEmpty() {
		b.torrents.Remove(idx, true)
		return ScrapeCounts{}
	}

	pl := torrent.PeerList

	return ScrapeCounts{
		Seed:  pl.seedCount,
		Down:  pl.downCount,
		Leech: pl.LeechCount(),
		Found: true,
	}
}
