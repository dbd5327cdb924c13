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

import (
	"math/bits"
	"sync"
)

// bucket is one independently-locked shard of the torrent map: an ordered
// vector of torrents sorted by infohash, plus its own mutex. This is
// ot_vector + the per-bucket pthread_mutex_t pair in mutex_bucket_lock.
type bucket struct {
	mu       sync.Mutex
	torrents Vector[Torrent]
}

// bucketTable is OT_BUCKET_COUNT independent shards, selected by the top
// bits of the infohash. Holding more than one bucket's lock at a time is
// forbidden everywhere in this package to preclude deadlock; callers must
// release a bucket before acquiring another (the fullscrape walker is the
// canonical example: one bucket at a time, never two).
type bucketTable struct {
	buckets []bucket
	bits    uint
}

func newBucketTable(count int) *bucketTable {
	if count <= 0 || count&(count-1) != 0 {
		panic("ottracker: bucket count must be a power of two")
	}

	bt := &bucketTable{
		buckets: make([]bucket, count),
		bits:    uint(bits.Len(uint(count)) - 1),
	}

	for i := range bt.buckets {
		bt.buckets[i].torrents = Vector[Torrent]{compare: compareTorrentByHash}
	}

	return bt
}

func (bt *bucketTable) count() int {
	return len(bt.buckets)
}

// lockByHash returns the bucket owning hash, locked. Callers must call
// unlock() on the returned bucket exactly once.
func (bt *bucketTable) lockByHash(hash InfoHash) *bucket {
	idx := hash.bucketIndex(bt.bits)
	b := &bt.buckets[idx]
	b.mu.Lock()

	return b
}

func (b *bucket) unlock() {
	b.mu.Unlock()
}

// lock locks the bucket at index i directly, used by the fullscrape walker
// and Store.Sweep, which iterate buckets by index rather than by hash.
func (bt *bucketTable) lock(i int) *bucket {
	b := &bt.buckets[i]
	b.mu.Lock()

	return b
}
