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
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"ottracker/adminip"
	"ottracker/store"
	"ottracker/util"
)

func newTestHandler() *Handler {
	return &Handler{
		store:            store.NewStore(store.Config{}),
		admin:            adminip.NewTable(),
		queue:            store.NewWorkQueue(),
		bufferPool:       util.NewBufferPool(500),
		normalRegisterer: prometheus.NewRegistry(),
		startTime:        time.Now(),
	}
}

func newTestCtx(uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	var req fasthttp.Request

	req.SetRequestURI(uri)
	ctx.Init(&req, &net.TCPAddr{IP: net.ParseIP("203.0.113.9"), Port: 54321}, nil)

	return &ctx
}

const testHash = "0123456789abcdef0123456789abcdef01234567"[:40]

func TestAnnounceMissingInfoHash(t *testing.T) {
	h := newTestHandler()
	ctx := newTestCtx("/announce?peer_id=" + strings.Repeat("a", 20) + "&port=6881&uploaded=0&downloaded=0&left=0")

	var buf bytes.Buffer
	announce(ctx, h, &buf)

	if !strings.Contains(buf.String(), "missing info_hash") {
		t.Fatalf("expected missing info_hash failure, got %q", buf.String())
	}
}

func TestAnnounceRejectsNonCompact(t *testing.T) {
	h := newTestHandler()
	ctx := newTestCtx("/announce?info_hash=" + urlEncodedHash() +
		"&peer_id=" + strings.Repeat("a", 20) + "&port=6881&uploaded=0&downloaded=0&left=0&compact=0")

	var buf bytes.Buffer
	announce(ctx, h, &buf)

	if !strings.Contains(buf.String(), "compact") {
		t.Fatalf("expected a compact-only failure, got %q", buf.String())
	}
}

func TestAnnounceAddsAndRemovesPeer(t *testing.T) {
	h := newTestHandler()

	uri := "/announce?info_hash=" + urlEncodedHash() +
		"&peer_id=" + strings.Repeat("a", 20) + "&port=6881&uploaded=0&downloaded=0&left=0&ip=203.0.113.9"

	var buf bytes.Buffer
	announce(newTestCtx(uri), h, &buf)

	if buf.Len() == 0 || buf.String()[0] != 'd' {
		t.Fatalf("expected a bencoded dict reply, got %q", buf.String())
	}

	hash, err := store.InfoHashFromHex(testHash)
	if err != nil {
		t.Fatalf("bad test hash: %v", err)
	}

	counts := h.store.Scrape(hash)
	if !counts.Found || counts.Seed != 1 {
		t.Fatalf("expected one seeder after announce, got %+v", counts)
	}

	stoppedURI := uri + "&event=stopped"

	buf.Reset()
	announce(newTestCtx(stoppedURI), h, &buf)

	counts = h.store.Scrape(hash)
	if counts.Found {
		t.Fatalf("expected torrent to be gone after the only peer stopped, got %+v", counts)
	}
}

func urlEncodedHash() string {
	var b strings.Builder

	for i := 0; i < len(testHash); i += 2 {
		b.WriteByte('%')
		b.WriteString(testHash[i : i+2])
	}

	return b.String()
}
