// Package metrics exposes a [dnscore.Window]'s counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lowmtu/dnscore"
)

type info struct {
	description *prometheus.Desc
	supplier    func(w *dnscore.Window) float64
}

// WindowCollector implements prometheus.Collector over a single [dnscore.Window].
// Register one per direction (up/send, down/recv) with distinct constLabels
// so the two series don't collide.
type WindowCollector struct {
	w     *dnscore.Window
	infos []info
}

// NewWindowCollector builds a collector for w. constLabels is meant for
// labels constant across the process lifetime (e.g. "direction=down").
func NewWindowCollector(w *dnscore.Window, constLabels prometheus.Labels) *WindowCollector {
	c := &WindowCollector{w: w}
	c.addMetrics(constLabels)
	return c
}

func (c *WindowCollector) addMetrics(constLabels prometheus.Labels) {
	c.infos = []info{
		{
			description: prometheus.NewDesc("dnscore_window_items", "Populated fragment slots in the window.", nil, constLabels),
			supplier:    func(w *dnscore.Window) float64 { return float64(w.NumItems()) },
		},
		{
			description: prometheus.NewDesc("dnscore_window_available", "Free fragment slots in the window.", nil, constLabels),
			supplier:    func(w *dnscore.Window) float64 { return float64(w.Available()) },
		},
		{
			description: prometheus.NewDesc("dnscore_window_resends_total", "Cumulative duplicate-fragment arrivals observed.", nil, constLabels),
			supplier:    func(w *dnscore.Window) float64 { return float64(w.Resends()) },
		},
		{
			description: prometheus.NewDesc("dnscore_window_oos_total", "Cumulative out-of-sequence drops observed.", nil, constLabels),
			supplier:    func(w *dnscore.Window) float64 { return float64(w.OOS()) },
		},
		{
			description: prometheus.NewDesc("dnscore_window_size", "Configured window size in fragments.", nil, constLabels),
			supplier:    func(w *dnscore.Window) float64 { return float64(w.Windowsize()) },
		},
	}
}

// Describe implements prometheus.Collector.
func (c *WindowCollector) Describe(descs chan<- *prometheus.Desc) {
	for _, i := range c.infos {
		descs <- i.description
	}
}

// Collect implements prometheus.Collector.
func (c *WindowCollector) Collect(metrics chan<- prometheus.Metric) {
	for _, i := range c.infos {
		metrics <- prometheus.MustNewConstMetric(i.description, prometheus.GaugeValue, i.supplier(c.w))
	}
}
