package handlers

import (
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// writeMetrics writes the gathered metrics to path in the Prometheus text
// format. Failures are logged; they never fail the command.
func writeMetrics(path string, g prometheus.Gatherer, logger logr.Logger) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		logger.Error(err, "failed to write metrics", "path", path)
		return
	}
	logger.V(1).Info("metrics written", "path", path)
}
