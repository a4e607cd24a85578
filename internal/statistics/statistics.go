package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "silotherm"
)

// Register makes the metrics of the given collector available on the
// statistics endpoint.
func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
