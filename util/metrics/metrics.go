package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for circulation counters.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeOutOfStock = "out_of_stock"
	OutcomeError      = "error"
)

var (
	Borrows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartlibrary_borrows_total",
		Help: "Borrow transactions by outcome.",
	}, []string{"outcome"})

	Returns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartlibrary_returns_total",
		Help: "Return transactions by outcome.",
	}, []string{"outcome"})
)

func Handler() http.Handler { return promhttp.Handler() }
