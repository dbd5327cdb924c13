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

	"ottracker/bencode"
)

// Chunk is one scatter-gather segment of a fullscrape dump. Every chunk is
// trimmed to its used prefix, so none is longer than
// Config.ScrapeChunkSize bytes and most are somewhat shorter.
type Chunk []byte

// Fullscrape walks every bucket, one at a time under its own lock (never
// two at once - spec.md §4.B), and emits the dump in
// Config.ScrapeChunkSize chunks, allocating the next chunk once the
// current one's remaining space drops below
// Config.FullscrapeMaxEntryLen. This is ot_fullscrape.c's
// fullscrape_make, generalized off a fixed iovec array onto a slice of
// chunks.
func (s *Store) Fullscrape() []Chunk {
	chunkSize := s.cfg.ScrapeChunkSize
	threshold := s.cfg.FullscrapeMaxEntryLen

	var chunks []Chunk

	cur := bytes.NewBuffer(make([]byte, 0, chunkSize))
	bencode.WriteScrapeHeader(cur)

	for i := 0; i < s.buckets.count(); i++ {
		b := s.buckets.lock(i)

		for j := 0; j < b.torrents.Len(); j++ {
			torrent := b.torrents.At(j)
			pl := torrent.PeerList

			if pl.peerCount == 0 && pl.downCount == 0 {
				continue
			}

			bencode.WriteScrapeTorrent(cur, [InfoHashSize]byte(torrent.Hash),
				int64(pl.seedCount), int64(pl.downCount), int64(pl.LeechCount()))

			if cur.Cap()-cur.Len() < threshold {
				chunks = append(chunks, Chunk(cur.Bytes()))
				cur = bytes.NewBuffer(make([]byte, 0, chunkSize))
			}
		}

		b.unlock()
	}

	bencode.WriteScrapeFooter(cur)
	chunks = append(chunks, Chunk(cur.Bytes()))

	return chunks
}

// FullscrapeLinear is the alternative synchronous path of spec.md §4.H: a
// single pre-sized buffer walked once, instead of a chunked
// scatter-gather vector. It MUST produce byte-identical output (once
// Fullscrape's chunks are concatenated) for the same population - both
// share the same per-torrent filter and encoding, applied in the same
// bucket order.
func (s *Store) FullscrapeLinear() []byte {
	torrentCount := 0

	for i := 0; i < s.buckets.count(); i++ {
		b := s.buckets.lock(i)
		torrentCount += b.torrents.Len()
		b.unlock()
	}

	buf := bytes.NewBuffer(make([]byte, 0, 100*(torrentCount+1)))
	bencode.WriteScrapeHeader(buf)

	for i := 0; i < s.buckets.count(); i++ {
		b := s.buckets.lock(i)

		for j := 0; j < b.torrents.Len(); j++ {
			torrent := b.torrents.At(j)
			pl := torrent.PeerList

			if pl.peerCount == 0 && pl.downCount == 0 {
				continue
			}

			bencode.WriteScrapeTorrent(buf, [InfoHashSize]byte(torrent.Hash),
				int64(pl.seedCount), int64(pl.downCount), int64(pl.LeechCount()))
		}

		b.unlock()
	}

	bencode.WriteScrapeFooter(buf)

	return buf.Bytes()
}
