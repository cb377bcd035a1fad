// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics provides Prometheus metrics for boxsync runs.
//
// boxsync is a batch tool, so metrics live in a private registry and are exported with
// WriteTextfile for the node exporter textfile collector instead of being served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.com/tozd/go/errors"
)

// Registry holds every boxsync metric
var Registry = prometheus.NewRegistry()

var (
	listingPagesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxsync_listing_pages_total",
			Help: "Total number of folder listing pages requested",
		},
		[]string{"status"},
	)

	listingEntriesTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "boxsync_listing_entries_total",
			Help: "Total number of folder entries returned by listings",
		},
	)

	downloadsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxsync_downloads_total",
			Help: "Total number of item downloads by outcome",
		},
		[]string{"status"},
	)

	downloadBytesTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "boxsync_download_bytes_total",
			Help: "Total bytes written to the cache directory",
		},
	)

	downloadsInFlight = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "boxsync_downloads_in_flight",
			Help: "Number of downloads currently being transferred",
		},
	)
)

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// RecordListingPage counts one listing round trip
func RecordListingPage(ok bool, entries int) {
	listingPagesTotal.WithLabelValues(status(ok)).Inc()
	listingEntriesTotal.Add(float64(entries))
}

// DownloadStarted marks a transfer as in flight; call the returned func when it ends
func DownloadStarted() func() {
	downloadsInFlight.Inc()
	return downloadsInFlight.Dec
}

// RecordDownload counts one finished download
func RecordDownload(ok bool, bytes int64) {
	downloadsTotal.WithLabelValues(status(ok)).Inc()
	if ok {
		downloadBytesTotal.Add(float64(bytes))
	}
}

// WriteTextfile writes the current metric values to path in the Prometheus text format
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return errors.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
