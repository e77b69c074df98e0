// SPDX-License-Identifier: MIT

package dlr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// basisCacheLookups counts Get calls by result ("hit", "miss", "shared").
	basisCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gfmesh_dlr_basis_cache_lookups_total",
		Help: "DLR basis cache lookups by result",
	}, []string{"result"})

	// basisBuildDuration tracks basis construction latency.
	basisBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gfmesh_dlr_basis_build_duration_seconds",
		Help:    "DLR basis construction duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
	})

	// basisRank tracks the number of basis functions of built bases.
	basisRank = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gfmesh_dlr_basis_rank",
		Help:    "Number of DLR basis functions per constructed basis",
		Buckets: []float64{8, 16, 24, 32, 48, 64, 96, 128},
	})
)
