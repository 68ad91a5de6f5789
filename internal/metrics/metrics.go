package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkshortener"

var (
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_created_total",
		Help:      "Short links minted by shorten.",
	})
	LinksReused = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_reused_total",
		Help:      "Shorten calls answered with an existing hash, including lost create races.",
	})
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clicks_recorded_total",
		Help:      "Click increments applied to the store.",
	})
	ClicksDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clicks_dropped_total",
		Help:      "Clicks that were not applied.",
	}, []string{"reason"})
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Failed link operations by operation and error kind.",
	}, []string{"op", "kind"})
)
