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
	"encoding/json"
	"net/netip"
	"time"

	"github.com/valyala/fasthttp"

	"ottracker/adminip"
	"ottracker/store"
)

// adminStat reports the population-wide counters as JSON, gated behind
// adminip.MayStat - the HTTP-accessible counterpart of the /metrics
// endpoint's admin section, for operators who want raw numbers rather
// than Prometheus exposition text.
func adminStat(ctx *fasthttp.RequestCtx, h *Handler, buf *bytes.Buffer) int {
	addr, err := netip.ParseAddr(requestIP(ctx))
	if err != nil || !h.admin.IsBlessed(addr, adminip.MayStat) {
		failure("Not authorized for stat", buf, time.Hour)
		return fasthttp.StatusForbidden
	}

	stats := h.store.Stats()

	type response struct {
		Torrents uint64 `json:"torrents"`
		Peers    uint64 `json:"peers"`
		Seeders  uint64 `json:"seeders"`
		Leechers uint64 `json:"leechers"`
	}

	res, err := json.Marshal(response{
		Torrents: stats.Torrents,
		Peers:    stats.Peers,
		Seeders:  stats.Seeders,
		Leechers: stats.Leechers(),
	})
	if err != nil {
		failure("Failed to marshal stats", buf, 0)
		return fasthttp.StatusInternalServerError
	}

	buf.Write(res)

	return fasthttp.StatusOK
}

// livesyncEntry is one peer injected by a replication batch: the infohash
// it belongs to, its compact address, and whether it is seeding.
type livesyncEntry struct {
	InfoHash string `json:"info_hash"`
	IP       string `json:"ip"`
	Port     uint16 `json:"port"`
	Seeding  bool   `json:"seeding"`
}

// livesync accepts a batch of peers from a replication stream and injects
// them into the store as synced peers (pool 1, never pool 0 - spec.md
// §4.E step 5), gated behind adminip.MayLivesync. This is the receiving
// end of the seam record.Record's event log feeds on the sending side.
func livesync(ctx *fasthttp.RequestCtx, h *Handler, buf *bytes.Buffer) int {
	addr, err := netip.ParseAddr(requestIP(ctx))
	if err != nil || !h.admin.IsBlessed(addr, adminip.MayLivesync) {
		failure("Not authorized for livesync", buf, time.Hour)
		return fasthttp.StatusForbidden
	}

	var batch []livesyncEntry
	if err := json.Unmarshal(ctx.PostBody(), &batch); err != nil {
		failure("Malformed livesync batch", buf, 0)
		return fasthttp.StatusBadRequest
	}

	accepted := 0

	for _, entry := range batch {
		hash, err := store.InfoHashFromHex(entry.InfoHash)
		if err != nil {
			continue
		}

		ip, err := netip.ParseAddr(entry.IP)
		if err != nil || !ip.Is4() {
			continue
		}

		var flags store.PeerFlag
		if entry.Seeding {
			flags = store.FlagSeeding
		}

		peer := store.NewPeer(ip.As4(), entry.Port, flags)

		if _, err := h.store.AddPeer(hash, peer, true); err == nil {
			accepted++
		}
	}

	buf.Reset()
	res, err := json.Marshal(struct {
		Accepted int `json:"accepted"`
		Received int `json:"received"`
	}{accepted, len(batch)})
	if err != nil {
		failure("Failed to marshal livesync response", buf, 0)
		return fasthttp.StatusInternalServerError
	}

	buf.Write(res)

	return fasthttp.StatusOK
}
