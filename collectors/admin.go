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

package collectors

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// AdminCollector reports operational counters gated behind MAY_STAT: a
// rejected-requests counter, how long fullscrapes take, and how often the
// event recorder drops a record rather than block the announce path. No
// request handler calls IncrementRejectedRequests, so in a running tracker
// the rejected-requests counter stays at zero.
type AdminCollector struct {
	rejectedRequestsMetric *prometheus.Desc
	recorderDroppedMetric  *prometheus.Desc

	fullscrapeTimeHistogram *prometheus.Histogram
}

var (
	rejectedRequests int64
	recorderDropped  int64

	fullscrapeTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ottracker_fullscrape_seconds",
		Help:    "Histogram of the time taken to build a fullscrape dump",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})
)

func NewAdminCollector() *AdminCollector {
	return &AdminCollector{
		rejectedRequestsMetric: prometheus.NewDesc("ottracker_requests_rejected",
			"Number of requests rejected by the access list or admin IP table", nil, nil),
		recorderDroppedMetric: prometheus.NewDesc("ottracker_recorder_dropped",
			"Number of sync/event records dropped because the recorder channel was full", nil, nil),
		fullscrapeTimeHistogram: &fullscrapeTime,
	}
}

func (collector *AdminCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.rejectedRequestsMetric
	ch <- collector.recorderDroppedMetric

	fullscrapeTime.Describe(ch)
}

func (collector *AdminCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.rejectedRequestsMetric, prometheus.CounterValue, float64(atomic.LoadInt64(&rejectedRequests)))
	ch <- prometheus.MustNewConstMetric(collector.recorderDroppedMetric, prometheus.CounterValue, float64(atomic.LoadInt64(&recorderDropped)))

	fullscrapeTime.Collect(ch)
}

func IncrementRejectedRequests() { atomic.AddInt64(&rejectedRequests, 1) }

func IncrementRecorderDropped() { atomic.AddInt64(&recorderDropped, 1) }

func UpdateFullscrapeTime(seconds float64) { fullscrapeTime.Observe(seconds) }
