// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tetshell_operations_total",
	Help: "Local operations attempted by the remeshing passes, by outcome.",
}, []string{"op", "result"})

func countOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	opsTotal.WithLabelValues(op, result).Inc()
}
