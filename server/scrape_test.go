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
	"strings"
	"testing"

	"ottracker/store"
)

func TestScrapeRequiresInfoHash(t *testing.T) {
	h := newTestHandler()

	var buf bytes.Buffer
	scrape(newTestCtx("/scrape"), h, &buf)

	if !strings.Contains(buf.String(), "must provide at least one info_hash") {
		t.Fatalf("expected a missing info_hash failure, got %q", buf.String())
	}
}

func TestScrapeReportsKnownAndUnknownTorrents(t *testing.T) {
	h := newTestHandler()

	hash, err := store.InfoHashFromHex(testHash)
	if err != nil {
		t.Fatalf("bad test hash: %v", err)
	}

	peer := store.NewPeer([4]byte{203, 0, 113, 9}, 6881, store.FlagSeeding)
	if _, err := h.store.AddPeer(hash, peer, false); err != nil {
		t.Fatalf("AddPeer: %v", err)
	}

	var buf bytes.Buffer
	scrape(newTestCtx("/scrape?info_hash="+urlEncodedHash()), h, &buf)

	got := buf.String()
	if !strings.Contains(got, "8:completei1e") {
		t.Fatalf("expected one seeder in scrape reply, got %q", got)
	}
}
