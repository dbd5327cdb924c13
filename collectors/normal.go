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
	"github.com/prometheus/client_golang/prometheus"
)

// NormalCollector reports the population-wide counters a public metrics
// scraper is allowed to see: the same numbers store.Stats exposes, plus
// uptime and request volume. It is populated just before each Gather by
// the metrics endpoint handler, following the teacher's poll-then-Collect
// pattern.
type NormalCollector struct {
	uptimeMetric   *prometheus.Desc
	torrentsMetric *prometheus.Desc
	peersMetric    *prometheus.Desc
	seedersMetric  *prometheus.Desc
	leechersMetric *prometheus.Desc
	requestsMetric *prometheus.Desc
}

var (
	uptime   float64
	torrents int
	peers    int
	seeders  int
	leechers int
	requests uint64
)

func NewNormalCollector() *NormalCollector {
	return &NormalCollector{
		uptimeMetric:   prometheus.NewDesc("ottracker_uptime", "System uptime in seconds", nil, nil),
		torrentsMetric: prometheus.NewDesc("ottracker_torrents", "Number of torrents currently tracked", nil, nil),
		peersMetric:    prometheus.NewDesc("ottracker_peers", "Number of peers currently tracked", nil, nil),
		seedersMetric:  prometheus.NewDesc("ottracker_seeders", "Number of seeders currently tracked", nil, nil),
		leechersMetric: prometheus.NewDesc("ottracker_leechers", "Number of leechers currently tracked", nil, nil),
		requestsMetric: prometheus.NewDesc("ottracker_requests", "Number of HTTP requests served", nil, nil),
	}
}

func (collector *NormalCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.uptimeMetric
	ch <- collector.torrentsMetric
	ch <- collector.peersMetric
	ch <- collector.seedersMetric
	ch <- collector.leechersMetric
	ch <- collector.requestsMetric
}

func (collector *NormalCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.uptimeMetric, prometheus.CounterValue, uptime)
	ch <- prometheus.MustNewConstMetric(collector.torrentsMetric, prometheus.GaugeValue, float64(torrents))
	ch <- prometheus.MustNewConstMetric(collector.peersMetric, prometheus.GaugeValue, float64(peers))
	ch <- prometheus.MustNewConstMetric(collector.seedersMetric, prometheus.GaugeValue, float64(seeders))
	ch <- prometheus.MustNewConstMetric(collector.leechersMetric, prometheus.GaugeValue, float64(leechers))
	ch <- prometheus.MustNewConstMetric(collector.requestsMetric, prometheus.CounterValue, float64(requests))
}

func UpdateUptime(seconds float64) { uptime = seconds }

func UpdateTorrents(count int) { torrents = count }

func UpdatePeers(count int) { peers = count }

func UpdateSeeders(count int) { seeders = count }

func UpdateLeechers(count int) { leechers = count }

func UpdateRequests(count uint64) { requests = count }
