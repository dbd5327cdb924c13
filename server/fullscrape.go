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
	"net/netip"
	"time"

	"github.com/valyala/fasthttp"

	"ottracker/adminip"
	"ottracker/collectors"
)

// fullscrape serves a full dump of every tracked torrent's scrape
// counters, gated behind adminip.MayFullscrape. The dump is produced by
// pushing a task onto the shared WorkQueue and waiting for a worker
// goroutine to build it - ot_fullscrape.c's push_task/pop_task/
// push_result relationship - instead of building it inline on the
// request goroutine, so a slow client can't hold a fullscrape worker
// hostage indefinitely: a closed connection just leaves the result
// unconsumed (spec.md §4.I).
func fullscrape(ctx *fasthttp.RequestCtx, h *Handler, buf *bytes.Buffer) int {
	addr, err := netip.ParseAddr(requestIP(ctx))
	if err != nil || !h.admin.IsBlessed(addr, adminip.MayFullscrape) {
		failure("Not authorized for fullscrape", buf, time.Hour)
		return fasthttp.StatusForbidden
	}

	start := time.Now()

	id, result := h.queue.PushTask()

	select {
	case chunks := <-result:
		collectors.UpdateFullscrapeTime(time.Since(start).Seconds())

		buf.Reset()
		for _, chunk := range chunks {
			buf.Write(chunk)
		}
	case <-ctx.Done():
		h.queue.Cancel(id)
		return fasthttp.StatusRequestTimeout
	}

	return fasthttp.StatusOK
}
