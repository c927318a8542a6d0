package fakebin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	created  prometheus.Counter
	rejected *prometheus.CounterVec
	reads    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		created: f.NewCounter(prometheus.CounterOpts{
			Name: "fakebin_paste_created_total",
			Help: "no. of pastes created",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fakebin_paste_rejected_total",
			Help: "no. of paste creations rejected, by reason",
		}, []string{"reason"}),
		reads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fakebin_paste_reads_total",
			Help: "no. of raw paste reads, by result",
		}, []string{"result"}),
	}
}
