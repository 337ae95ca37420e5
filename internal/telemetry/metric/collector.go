package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is the part of the key-value store the collector samples.
type StoreStats interface {
	Len() int
	ExpiredCount() uint64
}

// StoreCollector reports store size and lazy expiry totals at scrape time.
type StoreCollector struct {
	stats StoreStats

	keysDesc    *prometheus.Desc
	expiredDesc *prometheus.Desc
}

// NewStoreCollector creates a collector for stats.
func NewStoreCollector(stats StoreStats) *StoreCollector {
	return &StoreCollector{
		stats: stats,
		keysDesc: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "keys"),
			"Keys currently held and not yet expired.",
			nil, nil,
		),
		expiredDesc: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "keys_expired_total"),
			"Keys evicted because their expiry had passed.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
	ch <- c.expiredDesc
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(c.stats.Len()))
	ch <- prometheus.MustNewConstMetric(c.expiredDesc, prometheus.CounterValue, float64(c.stats.ExpiredCount()))
}
