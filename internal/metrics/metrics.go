// Package metrics exposes the application's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edges",
			Subsystem: "ledger",
			Name:      "transfers_total",
			Help:      "Settled transfers, by taxable flag.",
		},
		[]string{"taxable"},
	)

	TransferredAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edges",
			Subsystem: "ledger",
			Name:      "transferred_amount_total",
			Help:      "Total pre-tax amount moved between accounts.",
		},
	)

	ProvisionedAccounts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edges",
			Subsystem: "ledger",
			Name:      "provisioned_accounts_total",
			Help:      "Accounts auto-created by transfers to unknown recipients.",
		},
	)

	DecayRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edges",
			Subsystem: "decay",
			Name:      "runs_total",
			Help:      "Completed value-creation depreciation runs.",
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
