package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrNegativeCounterValue is returned when attempting to add a negative value to a counter.
var ErrNegativeCounterValue = errors.New("counter cannot be decreased")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// float stores a float64 as bits for lock-free updates.
type float struct {
	bits atomic.Uint64
}

func (f *float) load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *float) store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *float) add(delta float64) {
	for {
		old := f.bits.Load()
		if f.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

// family holds one series per distinct label combination. Counter, Gauge
// and Histogram differ only in what a series stores.
type family[S any] struct {
	name       string
	help       string
	kind       MetricType
	labelNames []string
	create     func() *S

	mu     sync.RWMutex
	series map[string]*entry[S]
}

type entry[S any] struct {
	labels map[string]string
	value  *S
}

func (f *family[S]) init(kind MetricType, name, help string, labelNames []string, create func() *S) {
	f.name = name
	f.help = help
	f.kind = kind
	f.labelNames = labelNames
	f.create = create
	f.series = make(map[string]*entry[S])
}

func newFloat() *float { return &float{} }

func (f *family[S]) Name() string     { return f.name }
func (f *family[S]) Help() string     { return f.help }
func (f *family[S]) Type() MetricType { return f.kind }

func (f *family[S]) get(values []string) (*S, error) {
	if len(values) != len(f.labelNames) {
		return nil, fmt.Errorf("%w: %s %s expected %d labels, got %d",
			ErrLabelCountMismatch, f.kind, f.name, len(f.labelNames), len(values))
	}
	key := strings.Join(values, "\x00")

	f.mu.RLock()
	e, ok := f.series[key]
	f.mu.RUnlock()
	if ok {
		return e.value, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.series[key]; ok {
		return e.value, nil
	}
	labels := make(map[string]string, len(values))
	for i, name := range f.labelNames {
		labels[name] = values[i]
	}
	e = &entry[S]{labels: labels, value: f.create()}
	f.series[key] = e
	return e.value, nil
}

func (f *family[S]) each(fn func(labels map[string]string, s *S)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, e := range f.series {
		fn(e.labels, e.value)
	}
}

// Counter is a monotonically increasing metric.
type Counter struct {
	family[float]
}

// CounterVec is a counter bound to one label combination.
type CounterVec struct {
	v *float
}

// WithLabels returns the series for the given label values.
func (c *Counter) WithLabels(values ...string) (*CounterVec, error) {
	v, err := c.get(values)
	if err != nil {
		return nil, err
	}
	return &CounterVec{v: v}, nil
}

// Inc increments a counter without labels.
func (c *Counter) Inc() error { return c.Add(1) }

// Add adds delta to a counter without labels.
func (c *Counter) Add(delta float64) error {
	vec, err := c.WithLabels()
	if err != nil {
		return err
	}
	return vec.Add(delta)
}

// Collect returns all metric samples.
func (c *Counter) Collect() []Sample {
	var out []Sample
	c.each(func(labels map[string]string, v *float) {
		out = append(out, Sample{Name: c.name, Labels: labels, Value: v.load()})
	})
	return out
}

// Inc increments the counter by 1.
func (v *CounterVec) Inc() error { return v.Add(1) }

// Add adds delta to the counter. Negative deltas are rejected.
func (v *CounterVec) Add(delta float64) error {
	if delta < 0 {
		return ErrNegativeCounterValue
	}
	v.v.add(delta)
	return nil
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	family[float]
}

// GaugeVec is a gauge bound to one label combination.
type GaugeVec struct {
	v *float
}

// WithLabels returns the series for the given label values.
func (g *Gauge) WithLabels(values ...string) (*GaugeVec, error) {
	v, err := g.get(values)
	if err != nil {
		return nil, err
	}
	return &GaugeVec{v: v}, nil
}

// Set sets a gauge without labels.
func (g *Gauge) Set(value float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Set(value)
	return nil
}

// Add adds delta to a gauge without labels.
func (g *Gauge) Add(delta float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Add(delta)
	return nil
}

// Collect returns all metric samples.
func (g *Gauge) Collect() []Sample {
	var out []Sample
	g.each(func(labels map[string]string, v *float) {
		out = append(out, Sample{Name: g.name, Labels: labels, Value: v.load()})
	})
	return out
}

// Set sets the gauge.
func (v *GaugeVec) Set(value float64) { v.v.store(value) }

// Add adds delta to the gauge.
func (v *GaugeVec) Add(delta float64) { v.v.add(delta) }

// Histogram tracks the distribution of observed values.
type Histogram struct {
	family[buckets]
	bounds []float64
}

type buckets struct {
	counts []atomic.Uint64
	sum    float
	count  atomic.Uint64
}

// HistogramVec is a histogram bound to one label combination.
type HistogramVec struct {
	bounds []float64
	b      *buckets
}

// WithLabels returns the series for the given label values.
func (h *Histogram) WithLabels(values ...string) (*HistogramVec, error) {
	b, err := h.get(values)
	if err != nil {
		return nil, err
	}
	return &HistogramVec{bounds: h.bounds, b: b}, nil
}

// Observe records a value in a histogram without labels.
func (h *Histogram) Observe(value float64) error {
	vec, err := h.WithLabels()
	if err != nil {
		return err
	}
	vec.Observe(value)
	return nil
}

// Collect returns bucket, sum and count samples for every series.
func (h *Histogram) Collect() []Sample {
	var out []Sample
	h.each(func(labels map[string]string, b *buckets) {
		var cumulative uint64
		for i, bound := range h.bounds {
			cumulative += b.counts[i].Load()
			le := make(map[string]string, len(labels)+1)
			for k, v := range labels {
				le[k] = v
			}
			le["le"] = formatFloat(bound)
			out = append(out, Sample{Name: h.name + "_bucket", Labels: le, Value: float64(cumulative)})
		}
		out = append(out,
			Sample{Name: h.name + "_sum", Labels: labels, Value: b.sum.load()},
			Sample{Name: h.name + "_count", Labels: labels, Value: float64(b.count.Load())},
		)
	})
	return out
}

// Observe records value in the first bucket whose bound is not below it.
func (v *HistogramVec) Observe(value float64) {
	for i, bound := range v.bounds {
		if value <= bound {
			v.b.counts[i].Add(1)
			break
		}
	}
	v.b.sum.add(value)
	v.b.count.Add(1)
}

// Registry holds all registered metrics.
type Registry struct {
	mu        sync.RWMutex
	metrics   []Metric
	names     map[string]struct{}
	onCollect []func()
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a new counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{}
	c.init(MetricTypeCounter, name, help, labels, newFloat)
	r.register(c)
	return c
}

// NewGauge creates and registers a new gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := &Gauge{}
	g.init(MetricTypeGauge, name, help, labels, newFloat)
	r.register(g)
	return g
}

// NewHistogram creates and registers a new histogram. A +Inf bucket is
// appended when bounds don't end with one.
func (r *Registry) NewHistogram(name, help string, bounds []float64, labels ...string) *Histogram {
	sorted := append([]float64(nil), bounds...)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{bounds: sorted}
	h.init(MetricTypeHistogram, name, help, labels, func() *buckets {
		return &buckets{counts: make([]atomic.Uint64, len(sorted))}
	})
	r.register(h)
	return h
}

// OnCollect registers fn to run before every exposition.
func (r *Registry) OnCollect(fn func()) {
	r.mu.Lock()
	r.onCollect = append(r.onCollect, fn)
	r.mu.Unlock()
}

// register panics on duplicate names since they would produce invalid output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// Handler returns an http.Handler that serves the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_ = r.Write(w)
	})
}

// Write renders every metric in the Prometheus text format.
func (r *Registry) Write(w io.Writer) error {
	r.mu.RLock()
	hooks := append([]func(){}, r.onCollect...)
	metrics := append([]Metric(nil), r.metrics...)
	r.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}

	var sb strings.Builder
	for _, m := range metrics {
		samples := m.Collect()
		if len(samples) == 0 {
			continue
		}
		sort.Slice(samples, func(i, j int) bool {
			if samples[i].Name != samples[j].Name {
				return samples[i].Name < samples[j].Name
			}
			return formatLabels(samples[i].Labels) < formatLabels(samples[j].Labels)
		})
		fmt.Fprintf(&sb, "# HELP %s %s\n", m.Name(), escapeHelp(m.Help()))
		fmt.Fprintf(&sb, "# TYPE %s %s\n", m.Name(), m.Type())
		for _, s := range samples {
			if len(s.Labels) == 0 {
				fmt.Fprintf(&sb, "%s %s\n", s.Name, formatFloat(s.Value))
			} else {
				fmt.Fprintf(&sb, "%s{%s} %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value))
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escapeLabelValue(labels[k]) + `"`
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var (
	helpEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
)

func escapeHelp(s string) string       { return helpEscaper.Replace(s) }
func escapeLabelValue(s string) string { return labelEscaper.Replace(s) }

// DefaultBuckets are the default histogram buckets for request durations (in seconds).
var DefaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
