package services

import "github.com/prometheus/client_golang/prometheus"

// RegisterMetrics registers the service level collectors. Call it once from
// main with the registry that backs /metrics.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		outfitsSaved,
		suggestionsTotal,
		remindersSent,
		canvasSessionsActive,
	)
}
