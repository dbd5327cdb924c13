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

package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"ottracker/log"
)

// Listen addresses
var (
	ListenAddrTCP     = ":6881"
	ListenAddrUDP     = ":6881"
	ListenAddrMetrics = ":9622"
)

// Intervals
var (
	// ClientRequestInterval is OT_CLIENT_REQUEST_INTERVAL_RANDOM, the
	// interval advertised to clients in announce replies; it is sent as is,
	// with no jitter added.
	ClientRequestInterval = 30 * time.Minute

	// PoolRotationInterval is how often a torrent's oldest peer pool is
	// rotated out and its entries considered stale.
	PoolRotationInterval = 15 * time.Minute

	// FullscrapeReloadInterval is not read by any code path: fullscrape
	// dumps are built per request by the fullscrape worker, and no standing
	// dump is kept or rebuilt in the background.
	FullscrapeReloadInterval = 120 * time.Second

	// SweepInterval is how often the background sweep walks every bucket,
	// rotating stale peer pools and evicting emptied torrents. It is
	// independent of PoolRotationInterval: a torrent only gets caught by
	// the sweep once per tick, so this only needs to run often enough
	// that dead swarms don't linger, not on the rotation's own cadence.
	SweepInterval = 5 * time.Minute
)

// Store tunables, see store.Config
var (
	BucketCount           = 256
	PoolsCount            = 4
	ScrapeChunkSize       = 512 * 1024
	FullscrapeMaxEntryLen = 100
)

// Announce reply sizing
var (
	NumWantDefault = 50
	NumWantMax     = 200
)

// Access list
var (
	AccessListMode = "off" // "off", "white", "black"
	AccessListPath = ""
)

// Config file stuff
var (
	configFile = "config.json"
	config     ConfigMap
	once       sync.Once
)

type ConfigMap map[string]interface{}

func Get(s string, defaultValue string) (string, bool) {
	once.Do(readConfig)
	return config.Get(s, defaultValue)
}

func GetBool(s string, defaultValue bool) (bool, bool) {
	once.Do(readConfig)
	return config.GetBool(s, defaultValue)
}

//noinspection GoUnusedExportedFunction
func GetInt(s string, defaultValue int) (int, bool) {
	once.Do(readConfig)
	return config.GetInt(s, defaultValue)
}

func Section(s string) ConfigMap {
	once.Do(readConfig)
	return config.Section(s)
}

func (m ConfigMap) Get(s string, defaultValue string) (string, bool) {
	if result, exists := m[s].(string); exists {
		return result, true
	} else {
		return defaultValue, false
	}
}

func (m ConfigMap) GetInt(s string, defaultValue int) (int, bool) {
	if result, exists := m[s].(json.Number); exists {
		res, _ := result.Int64()
		return int(res), true
	} else {
		return defaultValue, false
	}
}

func (m ConfigMap) GetBool(s string, defaultValue bool) (bool, bool) {
	if result, exists := m[s].(bool); exists {
		return result, true
	} else {
		return defaultValue, false
	}
}

func (m ConfigMap) Section(s string) ConfigMap {
	result, _ := m[s].(map[string]interface{})
	return result
}

func readConfig() {
	f, err := os.Open(configFile)

	if err != nil {
		log.Warning.Printf("Unable to open config file, defaults will be used! (%s)", err)
		return
	}

	decoder := json.NewDecoder(f)
	decoder.UseNumber()

	err = decoder.Decode(&config)

	if err != nil {
		log.Error.Printf("Can not parse config file, defaults will be used! (%s)", err)
		return
	}

	loadOverrides()
}

// loadOverrides pulls the tracker's own tunables out of the decoded
// config.json, falling back to the package-level defaults set above when a
// key is absent.
func loadOverrides() {
	tracker := config.Section("tracker")

	ListenAddrTCP, _ = tracker.Get("listen_tcp", ListenAddrTCP)
	ListenAddrUDP, _ = tracker.Get("listen_udp", ListenAddrUDP)
	ListenAddrMetrics, _ = tracker.Get("listen_metrics", ListenAddrMetrics)

	if v, ok := tracker.GetInt("client_request_interval_seconds", 0); ok {
		ClientRequestInterval = time.Duration(v) * time.Second
	}

	if v, ok := tracker.GetInt("pool_rotation_interval_seconds", 0); ok {
		PoolRotationInterval = time.Duration(v) * time.Second
	}

	if v, ok := tracker.GetInt("sweep_interval_seconds", 0); ok {
		SweepInterval = time.Duration(v) * time.Second
	}

	if v, ok := tracker.GetInt("bucket_count", 0); ok {
		BucketCount = v
	}

	if v, ok := tracker.GetInt("pools_count", 0); ok {
		PoolsCount = v
	}

	if v, ok := tracker.GetInt("scrape_chunk_size", 0); ok {
		ScrapeChunkSize = v
	}

	if v, ok := tracker.GetInt("fullscrape_max_entry_len", 0); ok {
		FullscrapeMaxEntryLen = v
	}

	if v, ok := tracker.GetInt("numwant_default", 0); ok {
		NumWantDefault = v
	}

	if v, ok := tracker.GetInt("numwant_max", 0); ok {
		NumWantMax = v
	}

	access := config.Section("accesslist")
	AccessListMode, _ = access.Get("mode", AccessListMode)
	AccessListPath, _ = access.Get("path", AccessListPath)
}
