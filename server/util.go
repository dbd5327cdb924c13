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

package server

import (
	"bytes"
	"net"
	"net/netip"
	"strings"
	"time"

	"ottracker/bencode"
)

func failure(err string, buf *bytes.Buffer, interval time.Duration) {
	buf.Reset()
	bencode.WriteFailure(buf, err, interval)
}

// isPrivateIPAddress reports whether addr is not globally routable: RFC1918
// and RFC3927/RFC6598 ranges for IPv4, plus loopback/link-local/unique-local
// for both families. The announce handler uses this to decide whether a
// client-asserted ip/ipv4 parameter is public; a public one is used in
// place of the socket's remote address whatever that address is.
func isPrivateIPAddress(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}

	if addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified() || addr.IsPrivate() {
		return true
	}

	if addr.Is4() {
		v4 := addr.As4()
		if v4[0] == 100 && v4[1]&0xc0 == 64 {
			return true // 100.64.0.0/10, RFC6598 carrier-grade NAT
		}
	}

	return false
}

// splitTrim splits s on sep, trimming whitespace and dropping empty
// fields - used to parse the comma-separated address lists in config.json.
func splitTrim(s string, sep byte) []string {
	fields := strings.Split(s, string(sep))
	out := fields[:0]

	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}

	return out
}

// parseAddr parses a bare IP, stripping a "[...]:port" or "ip:port" suffix
// first if present, so admin IP lists can be written either way.
func parseAddr(s string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr, nil
	}

	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return netip.Addr{}, err
	}

	return netip.ParseAddr(host)
}
