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

// Package bencode is a small streaming bencode writer for the tracker's
// hot paths (announce/scrape/fullscrape). It intentionally never
// reflects over a value the way github.com/zeebo/bencode does: every call
// site here writes exactly the grammar spec.md §6 defines, once, on a
// single pass over a *bytes.Buffer. It is grounded on the teacher's
// util/bencode.go, generalized to operate on raw hash/peer bytes instead
// of a database-specific torrent type.
package bencode

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"time"
)

func writeInt64[T ~int64 | ~int](buf *bytes.Buffer, v T) {
	var lenBuf [20]byte
	buf.Write(strconv.AppendInt(lenBuf[:0], int64(v), 10))
}

func writeString[T ~string | ~[]byte](buf *bytes.Buffer, v T) {
	writeInt64(buf, len(v))
	buf.WriteByte(':')
	buf.Write([]byte(v))
}

func writeNumber[T ~int64 | ~int](buf *bytes.Buffer, v T) {
	buf.WriteByte('i')
	writeInt64(buf, v)
	buf.WriteByte('e')
}

// WriteFailure writes `d14:failure reason<len>:<err>[8:intervali<R>e]e`.
func WriteFailure(buf *bytes.Buffer, reason string, interval time.Duration) {
	buf.WriteByte('d')

	writeString(buf, "failure reason")
	writeString(buf, reason)

	if interval > 0 {
		writeString(buf, "interval")
		writeNumber(buf, int64(interval/time.Second))
	}

	buf.WriteByte('e')
}

// WriteScrapeHeader writes "d5:filesd"; call WriteScrapeTorrent per
// torrent, then WriteScrapeFooter.
func WriteScrapeHeader(buf *bytes.Buffer) {
	buf.WriteByte('d')
	writeString(buf, "files")
	buf.WriteByte('d')
}

// WriteScrapeTorrent writes one `20:<hash>d8:completei<S>e10:downloadedi<D>e10:incompletei<L>ee` entry.
func WriteScrapeTorrent(buf *bytes.Buffer, hash [20]byte, complete, downloaded, incomplete int64) {
	writeString(buf, hash[:])

	buf.WriteByte('d')

	writeString(buf, "complete")
	writeNumber(buf, complete)

	writeString(buf, "downloaded")
	writeNumber(buf, downloaded)

	writeString(buf, "incomplete")
	writeNumber(buf, incomplete)

	buf.WriteByte('e')
}

// WriteScrapeFooter closes the files dict and the outer dict: "ee".
func WriteScrapeFooter(buf *bytes.Buffer) {
	buf.WriteByte('e')
	buf.WriteByte('e')
}

// WriteAnnounceHeaderTCP writes the TCP announce reply's dict prefix, up
// to and including the "peers<len>:" length-prefix; call WriteRawPeer
// `amount` times, then WriteAnnounceFooterTCP.
func WriteAnnounceHeaderTCP(buf *bytes.Buffer, seedCount, leechCount int64, interval time.Duration, amount int) {
	buf.WriteByte('d')

	writeString(buf, "complete")
	writeNumber(buf, seedCount)

	writeString(buf, "incomplete")
	writeNumber(buf, leechCount)

	writeString(buf, "interval")
	writeNumber(buf, int64(interval/time.Second))

	writeString(buf, "peers")
	writeInt64(buf, amount*6)
	buf.WriteByte(':')
}

// WriteRawPeer appends a single 6-byte compact peer (addr+port).
func WriteRawPeer(buf *bytes.Buffer, key [6]byte) {
	buf.Write(key[:])
}

// WriteAnnounceFooterTCP closes the announce reply dict.
func WriteAnnounceFooterTCP(buf *bytes.Buffer) {
	buf.WriteByte('e')
}

// WriteStoppedReplyTCP writes the complete reply for a "stopped" announce:
// zero peers always, per spec.md §4.E.
func WriteStoppedReplyTCP(buf *bytes.Buffer, seedCount, leechCount int64, interval time.Duration) {
	WriteAnnounceHeaderTCP(buf, seedCount, leechCount, interval, 0)
	WriteAnnounceFooterTCP(buf)
}

// AppendUDPAnnounceHeader appends the three big-endian 32-bit words
// [interval, peerCount, seedCount] opentracker's UDP reply uses (note:
// no separate leechers field on the wire; peerCount = leechers+seeders).
func AppendUDPAnnounceHeader(buf []byte, interval time.Duration, peerCount, seedCount uint32) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(interval/time.Second))
	buf = binary.BigEndian.AppendUint32(buf, peerCount)
	buf = binary.BigEndian.AppendUint32(buf, seedCount)

	return buf
}

// AppendUDPScrape appends the 12-byte [seeders, downloads, leechers] UDP
// scrape record for one infohash (all zero for an absent torrent).
func AppendUDPScrape(buf []byte, seed, down, leech uint32) []byte {
	buf = binary.BigEndian.AppendUint32(buf, seed)
	buf = binary.BigEndian.AppendUint32(buf, down)
	buf = binary.BigEndian.AppendUint32(buf, leech)

	return buf
}
