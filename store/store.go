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

package store

import "time"

// Config carries the compile/runtime tunables spec.md §6 lists as OT_*
// constants. Zero-value fields are replaced by DefaultConfig()'s values by
// NewStore.
type Config struct {
	// BucketCount must be a power of two (typ. 256 or 1024).
	BucketCount int
	// PoolsCount is OT_POOLS_COUNT, must be >= 4.
	PoolsCount int
	// ClientRequestInterval is the interval (R) advertised to clients in
	// announce replies, OT_CLIENT_REQUEST_INTERVAL_RANDOM.
	ClientRequestInterval time.Duration
	// PoolRotationInterval is how often a torrent's oldest pool is
	// rotated out by the per-torrent cleaner.
	PoolRotationInterval time.Duration
	// ScrapeChunkSize is OT_SCRAPE_CHUNK_SIZE, the fullscrape
	// scatter-gather chunk size.
	ScrapeChunkSize int
	// FullscrapeMaxEntryLen is OT_FULLSCRAPE_MAXENTRYLEN, the low-water
	// mark that triggers allocating the next chunk.
	FullscrapeMaxEntryLen int
}

func DefaultConfig() Config {
	return Config{
		BucketCount:           256,
		PoolsCount:            4,
		ClientRequestInterval: 30 * time.Minute,
		PoolRotationInterval:  15 * time.Minute,
		ScrapeChunkSize:       512 * 1024,
		FullscrapeMaxEntryLen: 100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.BucketCount == 0 {
		c.BucketCount = d.BucketCount
	}

	if c.PoolsCount == 0 {
		c.PoolsCount = d.PoolsCount
	}

	if c.PoolsCount < 4 {
		panic("ottracker: PoolsCount must be >= 4")
	}

	if c.ClientRequestInterval == 0 {
		c.ClientRequestInterval = d.ClientRequestInterval
	}

	if c.PoolRotationInterval == 0 {
		c.PoolRotationInterval = d.PoolRotationInterval
	}

	if c.ScrapeChunkSize == 0 {
		c.ScrapeChunkSize = d.ScrapeChunkSize
	}

	if c.FullscrapeMaxEntryLen == 0 {
		c.FullscrapeMaxEntryLen = d.FullscrapeMaxEntryLen
	}

	return c
}

// AccessChecker is the seam accesslist.List satisfies; it is consulted by
// AddPeer before any mutation (spec.md §4.E step 2). A nil AccessChecker
// admits everything.
type AccessChecker interface {
	IsAdmitted(hash InfoHash) bool
}

// Clock abstracts wall-clock time so tests can drive the per-torrent
// cleaner deterministically without sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store is the single long-lived state value holding every torrent and
// its peers, replacing opentracker's file-scope globals (bucket array,
// access list) per spec.md §9 "Global mutable store". The admin IP table
// is not held here; it lives on server.Handler.
type Store struct {
	cfg     Config
	buckets *bucketTable
	access  AccessChecker
	clock   Clock
}

type Option func(*Store)

// WithAccessChecker installs the access-list consulted by AddPeer.
func WithAccessChecker(a AccessChecker) Option {
	return func(s *Store) { s.access = a }
}

// WithClock overrides the wall clock; intended for tests.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func NewStore(cfg Config, opts ...Option) *Store {
	cfg = cfg.withDefaults()

	s := &Store{
		cfg:     cfg,
		buckets: newBucketTable(cfg.BucketCount),
		clock:   realClock{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) now() int64 { return s.clock.Now().Unix() }

// SetAccessChecker swaps the access checker at runtime (e.g. after the
// access-list's own reload, which itself doesn't need this - it mutates
// the checker's internal snapshot - but tests and OFF-mode wiring use it).
func (s *Store) SetAccessChecker(a AccessChecker) { s.access = a }
