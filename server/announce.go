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
	"fmt"
	"net/netip"
	"time"

	"github.com/valyala/fasthttp"

	"ottracker/bencode"
	"ottracker/config"
	"ottracker/record"
	"ottracker/server/params"
	"ottracker/store"
)

// resolveAnnounceIP implements trackerlogic.c's client-supplied-address
// rule: an explicit ip/ipv4 query parameter is honored only when it is
// not a private address, so a client behind NAT can't spoof a bogus
// public address but a client with a real public address can still
// override a proxy's socket address.
func resolveAnnounceIP(qp *params.QueryParam, ctx *fasthttp.RequestCtx) (netip.Addr, bool) {
	for _, key := range [...]string{"ip", "ipv4"} {
		if v, exists := qp.Get(key); exists {
			if addr, err := netip.ParseAddr(v); err == nil && addr.Is4() && !isPrivateIPAddress(addr) {
				return addr, true
			}
		}
	}

	if v := requestIP(ctx); v != "" {
		if addr, err := netip.ParseAddr(v); err == nil && addr.Is4() {
			return addr, true
		}
	}

	return netip.Addr{}, false
}

// announce is the HTTP entry point for the announce request, translating
// the wire query into store.Store.AddPeer/RemovePeer calls and formatting
// the compact TCP reply of spec.md §4.E/§6. Only compact replies are
// served - compact=0 is rejected rather than honored, since the
// non-compact peer-dict format was dropped along with the passkey/ratio
// machinery that used to gate it.
func announce(ctx *fasthttp.RequestCtx, h *Handler, buf *bytes.Buffer) int {
	qp, err := params.ParseQuery(string(ctx.QueryArgs().QueryString()))
	if err != nil {
		failure("Error parsing query", buf, time.Hour)
		return fasthttp.StatusOK
	}

	infoHashes := qp.InfoHashes()
	peerID, _ := qp.Get("peer_id")
	port, portExists := qp.GetUint16("port")
	_, uploadedExists := qp.GetUint64("uploaded")
	_, downloadedExists := qp.GetUint64("downloaded")
	left, leftExists := qp.GetUint64("left")

	switch {
	case len(infoHashes) == 0:
		failure("Malformed request - missing info_hash", buf, time.Hour)
		return fasthttp.StatusOK
	case len(infoHashes) > 1:
		failure("Malformed request - multiple info_hash values provided", buf, time.Hour)
		return fasthttp.StatusOK
	case peerID == "":
		failure("Malformed request - missing peer_id", buf, time.Hour)
		return fasthttp.StatusOK
	case len(peerID) != 20:
		failure("Malformed request - invalid peer_id", buf, time.Hour)
		return fasthttp.StatusOK
	case !portExists:
		failure("Malformed request - missing port", buf, time.Hour)
		return fasthttp.StatusOK
	case !uploadedExists:
		failure("Malformed request - missing uploaded", buf, time.Hour)
		return fasthttp.StatusOK
	case !downloadedExists:
		failure("Malformed request - missing downloaded", buf, time.Hour)
		return fasthttp.StatusOK
	case !leftExists:
		failure("Malformed request - missing left", buf, time.Hour)
		return fasthttp.StatusOK
	}

	if compactVal, exists := qp.Get("compact"); exists && compactVal == "0" {
		failure("Malformed request - this tracker only serves compact replies", buf, time.Hour)
		return fasthttp.StatusOK
	}

	ip, ok := resolveAnnounceIP(qp, ctx)
	if !ok {
		failure("Failed to resolve a public IP address for this announce", buf, time.Hour)
		return fasthttp.StatusOK
	}

	hash := infoHashes[0]
	event, _ := qp.Get("event")

	numWant := config.NumWantDefault
	if v, exists := qp.GetUint64("numwant"); exists {
		numWant = int(v)
	}
	if numWant > config.NumWantMax {
		numWant = config.NumWantMax
	}

	var flags store.PeerFlag
	if left == 0 {
		flags |= store.FlagSeeding
	}
	if event == "completed" {
		flags |= store.FlagCompleted
	}

	peer := store.NewPeer(ip.As4(), port, flags)

	if event == "stopped" {
		counts := h.store.RemovePeer(hash, peer)
		record.Record(hash, peer, event)

		buf.Reset()
		bencode.WriteStoppedReplyTCP(buf, int64(counts.SeedCount), int64(counts.PeerCount-counts.SeedCount),
			config.ClientRequestInterval)

		return fasthttp.StatusOK
	}

	if _, err := h.store.AddPeer(hash, peer, false); err != nil {
		failure(fmt.Sprintf("Your torrent is not allowed on this tracker (%v)", err), buf, time.Hour)
		return fasthttp.StatusOK
	}

	record.Record(hash, peer, event)

	sample := h.store.SamplePeers(hash, numWant)

	buf.Reset()
	bencode.WriteAnnounceHeaderTCP(buf, int64(sample.SeedCount), int64(sample.PeerCount-sample.SeedCount),
		config.ClientRequestInterval, len(sample.Peers))

	for _, key := range sample.Peers {
		bencode.WriteRawPeer(buf, key)
	}

	bencode.WriteAnnounceFooterTCP(buf)

	return fasthttp.StatusOK
}
