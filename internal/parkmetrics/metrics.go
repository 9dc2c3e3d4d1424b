// Package parkmetrics wires the park package's instrumentation hooks into
// Prometheus counters, so a process can observe park/unpark
// pressure without the core paying for it when nobody registers these
// hooks.
package parkmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/twmb/parkinglot/park"
)

var (
	parkedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkinglot",
		Name:      "park_total",
		Help:      "Total number of Park calls, including ones that never block.",
	})
	blockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkinglot",
		Name:      "park_blocked_total",
		Help:      "Total number of Park calls that actually enqueued a waiter and blocked.",
	})
	unparkOneTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parkinglot",
		Name:      "unpark_one_total",
		Help:      "Total number of UnparkOne calls, labeled by whether a waiter was found.",
	}, []string{"woke"})
	unparkAllWoken = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "parkinglot",
		Name:      "unpark_all_woken_total",
		Help:      "Total number of individual waiters woken across all UnparkAll calls.",
	})
)

// Register installs the Prometheus-backed hooks into park.Hooks. Call it
// once at process startup, before any goroutine calls park.Park.
func Register() {
	park.Hooks.Parked = func() {
		parkedTotal.Inc()
	}
	park.Hooks.Blocked = func() {
		blockedTotal.Inc()
	}
	park.Hooks.UnparkedOne = func(woke bool) {
		if woke {
			unparkOneTotal.WithLabelValues("true").Inc()
		} else {
			unparkOneTotal.WithLabelValues("false").Inc()
		}
	}
	park.Hooks.UnparkedAll = func(count int) {
		unparkAllWoken.Add(float64(count))
	}
}
