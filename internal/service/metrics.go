package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_gateway_requests_total",
			Help: "Total search executions by serving backend",
		},
		[]string{"backend"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_gateway_cache_lookups_total",
			Help: "Cache lookup outcomes for search and suggestion requests",
		},
		[]string{"result"},
	)

	failoversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_gateway_failovers_total",
			Help: "Failovers to the fallback backend by reason",
		},
		[]string{"reason"},
	)

	hardFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_gateway_hard_failures_total",
			Help: "Requests where both backends failed",
		},
	)
)
