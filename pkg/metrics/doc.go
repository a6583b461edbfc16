// Package metrics exposes Prometheus collectors for the portal.
//
// Collectors are registered with the default registry through promauto and
// served by promhttp.Handler on /metrics.
package metrics
