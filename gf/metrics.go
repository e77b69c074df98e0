// SPDX-License-Identifier: MIT

package gf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// transformCalls counts one-dimensional transform steps by name and result.
var transformCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gfmesh_gf_transform_calls_total",
	Help: "Green's function transform steps by transform and result",
}, []string{"transform", "result"})

func observeTransform(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	transformCalls.WithLabelValues(name, result).Inc()
}
