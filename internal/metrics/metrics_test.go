package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	bizdoc "github.com/alnah/go-bizdoc"
)

// gather returns counter and gauge values keyed by name and label values.
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "," + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := New()
	r.RegisterCollectors(reg)

	r.ObserveRender(bizdoc.FormatPDF, bizdoc.CategoryNone, 2*time.Second, 3)
	r.ObserveRender(bizdoc.FormatPDF, bizdoc.CategoryEngineCrashed, time.Second, 3)
	r.ObserveRender(bizdoc.FormatPPTX, bizdoc.CategoryNone, 10*time.Millisecond, 0)
	r.EngineStarted()
	r.EngineStarted()
	r.EngineStopped()

	got := gather(t, reg)
	want := map[string]float64{
		"bizdoc_renders_total,pdf,ok":             1,
		"bizdoc_renders_total,pdf,engine_crashed": 1,
		"bizdoc_renders_total,pptx,ok":            1,
		"bizdoc_render_duration_seconds,pdf":      2,
		"bizdoc_render_duration_seconds,pptx":     1,
		"bizdoc_render_sections,pdf":              2,
		"bizdoc_engines_in_use":                   1,
	}
	for key, v := range want {
		if got[key] != v {
			t.Errorf("%s = %v, want %v", key, got[key], v)
		}
	}
	if _, ok := got["bizdoc_render_sections,pptx"]; ok {
		t.Error("empty section counts should not be observed")
	}
}

func TestRegisterCollectors_Twice(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New().RegisterCollectors(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering a second recorder should panic")
		}
	}()
	New().RegisterCollectors(reg)
}
