// Copyright 2016 Google Inc. All Rights Reserved.
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

package mssmt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mssmt",
		Name:      "tree_op_duration_seconds",
		Help:      "Latency of tree engine operations, by operation and outcome.",
	}, []string{"op", "outcome"})

	opTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mssmt",
		Name:      "tree_op_total",
		Help:      "Count of tree engine operations, by operation and outcome.",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(opDuration, opTotal)
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func observeMutation(op string, d time.Duration, err error) {
	outcome := outcomeLabel(err)
	opDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
	opTotal.WithLabelValues(op, outcome).Inc()
}

func observeRead(op string, d time.Duration, err error) {
	outcome := outcomeLabel(err)
	opDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
	opTotal.WithLabelValues(op, outcome).Inc()
}
