package metrics

import "sort"

// Sample is one row of the metrics table: a tick, its simulated
// timestamp, and the metric snapshot captured at that tick.
type Sample struct {
	Tick      uint64
	Timestamp int64
	Metrics   map[string]Value
}

// Source is the subset of the pack contract the collector needs:
// a current metrics snapshot. Kept minimal so pkg/metrics has no import
// dependency on pkg/pack.
type Source interface {
	Metrics() map[string]Value
}

// Config configures a Collector's sampling cadence and column filter.
type Config struct {
	// SampleEveryTicks: sample iff tick mod SampleEveryTicks == 0. Must be
	// >= 1; the scenario loader is responsible for defaulting it to 1.
	SampleEveryTicks uint64
	// AllowList, if non-empty, restricts sampled metrics to these names.
	AllowList []string
}

// Collector accumulates MetricsSamples across a run. It never reads the
// wall clock; the timestamp supplied to Sample/ForceSample is the
// simulated timestamp the engine computed.
type Collector struct {
	cfg        Config
	allow      map[string]bool
	samples    []Sample
	sampledAt  map[uint64]bool
	columns    []string
	columnSeen map[string]bool
}

// NewCollector builds a Collector from the given config, defaulting
// SampleEveryTicks to 1 if unset.
func NewCollector(cfg Config) *Collector {
	if cfg.SampleEveryTicks == 0 {
		cfg.SampleEveryTicks = 1
	}
	var allow map[string]bool
	if len(cfg.AllowList) > 0 {
		allow = make(map[string]bool, len(cfg.AllowList))
		for _, name := range cfg.AllowList {
			allow[name] = true
		}
	}
	return &Collector{
		cfg:        cfg,
		allow:      allow,
		sampledAt:  make(map[uint64]bool),
		columnSeen: make(map[string]bool),
	}
}

// ShouldSample reports whether tick is a sampling tick per I5.
func (c *Collector) ShouldSample(tick uint64) bool {
	return tick%c.cfg.SampleEveryTicks == 0
}

// Sample captures pack.Metrics() at tick if ShouldSample holds and this
// tick has not already been captured.
func (c *Collector) Sample(tick uint64, timestamp int64, src Source) {
	if !c.ShouldSample(tick) {
		return
	}
	c.capture(tick, timestamp, src)
}

// ForceSample captures unconditionally, used for the final forced
// sample after the last tick.
func (c *Collector) ForceSample(tick uint64, timestamp int64, src Source) {
	c.capture(tick, timestamp, src)
}

func (c *Collector) capture(tick uint64, timestamp int64, src Source) {
	if c.sampledAt[tick] {
		return
	}
	c.sampledAt[tick] = true

	raw := src.Metrics()
	filtered := make(map[string]Value, len(raw))
	var newKeys []string
	for k, v := range raw {
		if c.allow != nil && !c.allow[k] {
			continue
		}
		filtered[k] = v
		if !c.columnSeen[k] {
			c.columnSeen[k] = true
			newKeys = append(newKeys, k)
		}
	}
	// raw is an unordered map; sort newly-seen keys before appending so
	// column order never depends on Go's randomized map iteration order.
	sort.Strings(newKeys)
	c.columns = append(c.columns, newKeys...)
	c.samples = append(c.samples, Sample{Tick: tick, Timestamp: timestamp, Metrics: filtered})
}

// Samples returns all captured samples in capture order.
func (c *Collector) Samples() []Sample {
	return c.samples
}

// Columns returns metric column names in first-seen (insertion) order,
// the order the CSV header must follow.
func (c *Collector) Columns() []string {
	return c.columns
}

// FinalMetrics returns the last sample's metric map, or an empty map if
// no sample has been taken.
func (c *Collector) FinalMetrics() map[string]Value {
	if len(c.samples) == 0 {
		return map[string]Value{}
	}
	return c.samples[len(c.samples)-1].Metrics
}
