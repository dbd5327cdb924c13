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
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"ottracker/accesslist"
	"ottracker/adminip"
	"ottracker/collectors"
	"ottracker/config"
	"ottracker/log"
	"ottracker/record"
	"ottracker/store"
	"ottracker/util"
)

// Handler is the single long-lived front-door value: the store it serves,
// the access controls gating it, and the bookkeeping the HTTP layer needs
// (buffer reuse, request counting, uptime). One value is shared by both
// listeners Start spins up.
type Handler struct {
	terminate atomic.Bool
	waitGroup sync.WaitGroup
	requests  uint64

	bufferPool *util.BufferPool
	store      *store.Store
	access     *accesslist.List
	admin      *adminip.Table
	queue      *store.WorkQueue

	normalRegisterer prometheus.Registerer

	startTime time.Time
}

var (
	handler         *Handler
	frontListener   net.Listener
	metricsListener net.Listener
	stopSweep       context.CancelFunc
)

func (h *Handler) handleFastHTTP(ctx *fasthttp.RequestCtx) {
	if h.terminate.Load() {
		return
	}

	h.waitGroup.Add(1)
	defer h.waitGroup.Done()

	defer func() {
		if err := recover(); err != nil {
			log.Error.Printf("handleFastHTTP panic - %v", err)
			log.WriteStack()
		}
	}()

	buf := h.bufferPool.Take()
	defer h.bufferPool.Give(buf)

	status := h.respond(ctx, buf)

	ctx.SetContentType("text/plain")
	ctx.SetStatusCode(status)
	ctx.SetBody(buf.Bytes())

	atomic.AddUint64(&h.requests, 1)
}

func (h *Handler) respond(ctx *fasthttp.RequestCtx, buf *bytes.Buffer) int {
	switch string(ctx.Path()) {
	case "/announce":
		return announce(ctx, h, buf)
	case "/scrape":
		return scrape(ctx, h, buf)
	case "/fullscrape":
		return fullscrape(ctx, h, buf)
	case "/livesync":
		return livesync(ctx, h, buf)
	case "/admin/stat":
		return adminStat(ctx, h, buf)
	case "/":
		return alive(ctx, h, buf)
	}

	failure(fmt.Sprintf("Unknown action (%s)", ctx.Path()), buf, time.Hour)

	return fasthttp.StatusOK
}

// requestIP resolves the requester's address for admin-IP checks and
// (when none of the announce/scrape IP overrides apply) peer recording,
// honoring the same reverse-proxy header both paths are configured with.
func requestIP(ctx *fasthttp.RequestCtx) string {
	if proxyHeader, exists := config.Section("http").Get("proxy_header", ""); exists && proxyHeader != "" {
		if v := ctx.Request.Header.Peek(proxyHeader); len(v) > 0 {
			return string(v)
		}
	}

	return ctx.RemoteIP().String()
}

func Start() {
	var err error

	handler = &Handler{
		store:            store.NewStore(storeConfig()),
		bufferPool:       util.NewBufferPool(500),
		queue:            store.NewWorkQueue(),
		admin:            adminip.NewTable(),
		startTime:        time.Now(),
		normalRegisterer: prometheus.NewRegistry(),
	}

	handler.access = accesslist.New(accessMode(), config.AccessListPath)
	if err := handler.access.Reload(); err != nil {
		log.Warning.Printf("accesslist: initial load failed, starting with an empty list: %v", err)
	}
	handler.store.SetAccessChecker(handler.access)

	loadAdminIPs(handler.admin)

	record.Init()

	handler.normalRegisterer.MustRegister(collectors.NewNormalCollector())
	prometheus.MustRegister(collectors.NewAdminCollector())

	go store.RunFullscrapeWorker(handler.queue, handler.store)

	var sweepCtx context.Context
	sweepCtx, stopSweep = context.WithCancel(context.Background())
	go util.ContextTick(sweepCtx, config.SweepInterval, handler.store.Sweep)

	frontListener, err = net.Listen("tcp", config.ListenAddrTCP)
	if err != nil {
		panic(err)
	}

	metricsListener, err = net.Listen("tcp", config.ListenAddrMetrics)
	if err != nil {
		panic(err)
	}

	frontServer := &fasthttp.Server{
		Handler:     handler.handleFastHTTP,
		ReadTimeout: 20 * time.Second,
	}

	metricsServer := &fasthttp.Server{
		Handler:     handler.handleMetricsFastHTTP,
		ReadTimeout: 20 * time.Second,
	}

	go func() {
		_ = metricsServer.Serve(metricsListener)
	}()

	log.Info.Printf("Ready and accepting new connections on %s (metrics on %s)",
		config.ListenAddrTCP, config.ListenAddrMetrics)

	_ = frontServer.Serve(frontListener)

	handler.waitGroup.Wait()

	_ = frontServer.Shutdown()
	_ = metricsServer.Shutdown()

	log.Info.Println("Shutdown complete")
}

func Stop() {
	_ = frontListener.Close()
	_ = metricsListener.Close()
	stopSweep()
	handler.terminate.Store(true)
}

// ReloadAccessList re-reads the access-list file from disk, same trigger
// as opentracker's SIGHUP handling of its allow/deny list.
func ReloadAccessList() error {
	return handler.access.Reload()
}

func storeConfig() store.Config {
	return store.Config{
		BucketCount:           config.BucketCount,
		PoolsCount:            config.PoolsCount,
		ClientRequestInterval: config.ClientRequestInterval,
		PoolRotationInterval:  config.PoolRotationInterval,
		ScrapeChunkSize:       config.ScrapeChunkSize,
		FullscrapeMaxEntryLen: config.FullscrapeMaxEntryLen,
	}
}

func accessMode() accesslist.Mode {
	switch config.AccessListMode {
	case "white":
		return accesslist.White
	case "black":
		return accesslist.Black
	default:
		return accesslist.Off
	}
}

// loadAdminIPs blesses the addresses listed under the "adminip" config
// section, one entry per key ("fullscrape", "stat", "livesync", "proxy")
// holding a comma-separated address list - the process-start equivalent
// of opentracker's -i command-line flags.
func loadAdminIPs(t *adminip.Table) {
	section := config.Section("adminip")

	perms := map[string]adminip.Permission{
		"fullscrape": adminip.MayFullscrape,
		"stat":       adminip.MayStat,
		"livesync":   adminip.MayLivesync,
		"proxy":      adminip.MayProxy,
	}

	for key, perm := range perms {
		list, _ := section.Get(key, "")
		if list == "" {
			continue
		}

		for _, addr := range splitTrim(list, ',') {
			parsed, err := parseAddr(addr)
			if err != nil {
				log.Warning.Printf("adminip: skipping invalid address %q: %v", addr, err)
				continue
			}

			if err := t.Bless(parsed, perm); err != nil {
				log.Warning.Printf("adminip: %v", err)
			}
		}
	}
}
