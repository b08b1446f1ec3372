package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "skate",
	Subsystem: "cache",
	Name:      "requests_total",
	Help:      "Cache lookups by result.",
}, []string{"result"})
