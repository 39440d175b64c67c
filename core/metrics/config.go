package metrics

import "github.com/avallet/chronoplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is where the scrape endpoint listens when a prometheus
	// sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}
