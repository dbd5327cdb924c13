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

	"github.com/valyala/fasthttp"

	"ottracker/bencode"
	"ottracker/server/params"
)

// scrape answers a multi-infohash scrape request, the TCP counterpart of
// return_tcp_scrape_for_torrent's per-hash loop: each requested hash is
// looked up independently, under its own bucket lock, via store.Scrape.
func scrape(ctx *fasthttp.RequestCtx, h *Handler, buf *bytes.Buffer) int {
	qp, err := params.ParseQuery(string(ctx.QueryArgs().QueryString()))
	if err != nil {
		failure("Error parsing query", buf, 0)
		return fasthttp.StatusOK
	}

	infoHashes := qp.InfoHashes()
	if len(infoHashes) == 0 {
		failure("Unsupported request - must provide at least one info_hash", buf, 0)
		return fasthttp.StatusOK
	}

	buf.Reset()
	bencode.WriteScrapeHeader(buf)

	for _, hash := range infoHashes {
		counts := h.store.Scrape(hash)
		if !counts.Found {
			continue
		}

		bencode.WriteScrapeTorrent(buf, [20]byte(hash), int64(counts.Seed), int64(counts.Down), int64(counts.Leech))
	}

	bencode.WriteScrapeFooter(buf)

	return fasthttp.StatusOK
}
