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

// Torrent pairs an infohash with its owned, uniquely-referenced PeerList.
// It is owned by value inside its bucket's Vector; PeerList is heap
// allocated since it outlives copies made during vector shifts.
type Torrent struct {
	Hash     InfoHash
	PeerList *PeerList
}

func compareTorrentByHash(a, b *Torrent) int {
	return a.Hash.Compare(b.Hash)
}
