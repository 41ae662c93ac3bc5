package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DeadlineGauges publishes the outcome of the latest deadline scan. It
// implements jobs.ScanObserver.
type DeadlineGauges struct {
	overdue     prometheus.Gauge
	approaching prometheus.Gauge
}

func NewDeadlineGauges(reg prometheus.Registerer) (*DeadlineGauges, error) {
	g := &DeadlineGauges{
		overdue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orderflow",
			Name:      "orders_overdue",
			Help:      "Open orders past their deadline at the last scan.",
		}),
		approaching: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orderflow",
			Name:      "orders_approaching_deadline",
			Help:      "Open orders required within the warning window at the last scan.",
		}),
	}

	for _, c := range []prometheus.Collector{g.overdue, g.approaching} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *DeadlineGauges) ObserveDeadlineScan(overdue, approaching int) {
	g.overdue.Set(float64(overdue))
	g.approaching.Set(float64(approaching))
}
