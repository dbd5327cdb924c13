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

import "encoding/binary"

// PeerFlag bits, defined per spec.md §3. COMPLETED without SEEDING is
// impossible (invariant F1); NormalizeFlags enforces it at insertion.
type PeerFlag uint8

const (
	FlagSeeding   PeerFlag = 1 << 0
	FlagCompleted PeerFlag = 1 << 1
)

// PeerKeySize is the comparison key width: 4-byte IPv4 address + 2-byte
// port. This is OT_PEER_COMPARE_SIZE in the C source.
const PeerKeySize = 6

// PeerSize is the full wire record: key + one flag byte. Do not reorder
// this layout; it is read and written byte-for-byte on the wire.
const PeerSize = PeerKeySize + 1

// PeerKey is the 6-byte address+port comparison key shared by a Peer.
type PeerKey [PeerKeySize]byte

// Peer is the compact binary peer record of spec.md §3: a 4-byte IPv4
// address, a 2-byte port, and a flag byte. The flag byte is out-of-key:
// two Peers with the same Key are "the same peer" regardless of Flags.
type Peer struct {
	Key   PeerKey
	Flags PeerFlag
}

func NewPeer(ip [4]byte, port uint16, flags PeerFlag) (p Peer) {
	copy(p.Key[:4], ip[:])
	binary.BigEndian.PutUint16(p.Key[4:6], port)
	p.Flags = flags

	return p
}

func (p Peer) IP() (ip [4]byte) {
	copy(ip[:], p.Key[:4])
	return ip
}

func (p Peer) Port() uint16 {
	return binary.BigEndian.Uint16(p.Key[4:6])
}

func (p Peer) Seeding() bool {
	return p.Flags&FlagSeeding != 0
}

func (p Peer) Completed() bool {
	return p.Flags&FlagCompleted != 0
}

// NormalizeFlags enforces invariant F1: a peer claiming COMPLETED without
// also claiming SEEDING is not a legal state ("whoever claims to have
// completed download, must be a seeder" in trackerlogic.c).
func NormalizeFlags(flags PeerFlag) PeerFlag {
	if flags&(FlagCompleted|FlagSeeding) == FlagCompleted {
		flags &^= FlagCompleted
	}

	return flags
}

// comparePeerByKey is the Vector comparator for a peer pool: ordering (and
// equality) is by the 6-byte key only, never by flags.
func comparePeerByKey(a, b *Peer) int {
	switch {
	case a.Key == b.Key:
		return 0
	case string(a.Key[:]) < string(b.Key[:]):
		return -1
	default:
		return 1
	}
}
