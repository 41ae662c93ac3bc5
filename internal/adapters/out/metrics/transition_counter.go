// Package metrics exposes Prometheus instruments for order operations.
package metrics

import (
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
)

// TransitionCounter counts lifecycle operations by action and outcome. It
// implements commands.TransitionObserver.
type TransitionCounter struct {
	transitions *prometheus.CounterVec
}

func NewTransitionCounter(reg prometheus.Registerer) (*TransitionCounter, error) {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "order_transitions_total",
		Help:      "Order lifecycle operations by action and outcome.",
	}, []string{"action", "outcome"})

	if err := reg.Register(transitions); err != nil {
		return nil, err
	}
	return &TransitionCounter{transitions: transitions}, nil
}

func (c *TransitionCounter) ObserveTransition(action order.Action, outcome commands.Outcome) {
	c.transitions.WithLabelValues(string(action), string(outcome)).Inc()
}
