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
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"

	"ottracker/adminip"
	"ottracker/collectors"
	"ottracker/log"
)

// handleMetricsFastHTTP serves the Prometheus exposition format on the
// metrics listener. Population counters (torrents/peers/seeders/uptime)
// are always exposed; the admin-only counters (rejected requests,
// recorder drops, fullscrape timing) are appended only for a remote
// address blessed with adminip.MayStat, mirroring opentracker's
// behaviour of gating its stats endpoint by admin IP rather than by a
// bearer token.
func (h *Handler) handleMetricsFastHTTP(ctx *fasthttp.RequestCtx) {
	stats := h.store.Stats()

	collectors.UpdateUptime(time.Since(h.startTime).Seconds())
	collectors.UpdateTorrents(int(stats.Torrents))
	collectors.UpdatePeers(int(stats.Peers))
	collectors.UpdateSeeders(int(stats.Seeders))
	collectors.UpdateLeechers(int(stats.Leechers()))
	collectors.UpdateRequests(atomic.LoadUint64(&h.requests))

	buf := h.bufferPool.Take()
	defer h.bufferPool.Give(buf)

	gatherInto(buf, h.normalRegisterer.(prometheus.Gatherer))

	addr, err := netip.ParseAddr(requestIP(ctx))
	if err == nil && h.admin.IsBlessed(addr, adminip.MayStat) {
		gatherInto(buf, prometheus.DefaultGatherer)
	}

	ctx.SetContentType("text/plain; version=0.0.4")
	ctx.SetBody(buf.Bytes())
}

func gatherInto(buf *bytes.Buffer, gatherer prometheus.Gatherer) {
	mfs, err := gatherer.Gather()
	if err != nil {
		log.Error.Printf("metrics: gather failed: %v", err)
		return
	}

	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(buf, mf); err != nil {
			log.Error.Printf("metrics: encoding failed: %v", err)
			return
		}
	}
}
