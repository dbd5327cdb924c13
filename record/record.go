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

// Package record is the tracker's sync/event recorder: the seam a real
// replication subsystem would tail. It is an hourly-rotated, append-only
// JSON-lines log of (hash, peer, event) triples, grounded on the teacher's
// record package but changed from a blocking channel send to a bounded,
// non-blocking one - Record is always called with the torrent's bucket
// lock already released, but it must still never be allowed to stall the
// announce path behind slow disk I/O, so a full channel drops the event
// instead of blocking.
package record

import (
	"bytes"
	"net"
	"os"
	"strconv"
	"time"

	"ottracker/collectors"
	"ottracker/config"
	"ottracker/store"
	"ottracker/util"
)

var recordChan chan []byte

func openEventFile(t time.Time) (*os.File, error) {
	return os.OpenFile("events/events_"+t.Format("2006-01-02T15")+".json", os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
}

// Init starts the recorder goroutine if recording is enabled in config.
// A no-op Record before Init (or with recording disabled) is always safe:
// recordChan stays nil and Record degrades to a silent no-op.
func Init() {
	enabled, _ := config.GetBool("record", false)
	if !enabled {
		return
	}

	if err := os.Mkdir("events", 0755); err != nil && !os.IsExist(err) {
		panic(err)
	}

	start := time.Now()
	recordChan = make(chan []byte, 4096)

	recordFile, err := openEventFile(start)
	if err != nil {
		panic(err)
	}

	go func() {
		for buf := range recordChan {
			now := time.Now()
			if now.Hour() != start.Hour() {
				start = now

				if err := recordFile.Close(); err != nil {
					panic(err)
				}

				recordFile, err = openEventFile(start)
				if err != nil {
					panic(err)
				}
			}

			if _, err := recordFile.Write(buf); err != nil {
				panic(err)
			}
		}
	}()
}

// Record appends one (hash, peer, event) triple. It never blocks: if the
// recorder's channel is full, the event is dropped and counted, rather than
// stalling the caller's announce/remove path. With recording disabled it
// returns at once and counts nothing.
func Record(hash store.InfoHash, peer store.Peer, event string) {
	if recordChan == nil {
		return
	}

	ip := peer.IP()

	b := make([]byte, 0, 80)
	buf := bytes.NewBuffer(b)

	buf.WriteString(`["`)
	buf.WriteString(hash.String())
	buf.WriteString(`","`)
	buf.WriteString(net.IP(ip[:]).String())
	buf.WriteString(`",`)
	buf.WriteString(strconv.FormatUint(uint64(peer.Port()), 10))
	buf.WriteString(`,"`)
	buf.WriteString(event)
	buf.WriteString(`",`)
	buf.WriteString(util.Btoa(peer.Seeding()))
	buf.WriteString(`,`)
	buf.WriteString(util.Btoa(peer.Completed()))
	buf.WriteString("]\n")

	select {
	case recordChan <- buf.Bytes():
	default:
		collectors.IncrementRecorderDropped()
	}
}
