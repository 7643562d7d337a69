package metrics

import (
	"strings"
	"testing"
)

func TestCounter_IncAndValue(t *testing.T) {
	c := NewCollector()
	ctr := c.Counter("test_total", "test counter", "")

	ctr.Inc()
	ctr.Add(2)
	if ctr.Value() != 3 {
		t.Fatalf("got %d, want 3", ctr.Value())
	}
}

func TestCounter_SameKeyReturnsSameInstance(t *testing.T) {
	c := NewCollector()
	a := c.Counter("dup_total", "", "")
	b := c.Counter("dup_total", "", "")
	if a != b {
		t.Fatal("same name+labels must return the same counter")
	}

	labelled := c.Counter("dup_total", "", `shape="video"`)
	if labelled == a {
		t.Fatal("different labels must return a distinct counter")
	}
}

func TestRender_ContainsCountersAndLabels(t *testing.T) {
	c := NewCollector()
	c.Counter("jobs_total", "jobs processed", "").Add(5)
	c.Counter("sends_total", "sends", `shape="video"`).Inc()
	c.Gauge("inflight", "in-flight requests", "").Set(2)

	out := c.Render()

	for _, want := range []string{
		"# TYPE jobs_total counter",
		"jobs_total 5",
		`sends_total{shape="video"} 1`,
		"# TYPE inflight gauge",
		"inflight 2",
		"tikrelay_uptime_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestDeliveriesTotal_PerShape(t *testing.T) {
	video := DeliveriesTotal("video")
	if video != DeliveriesTotal("video") {
		t.Fatal("shape counter not stable")
	}
	if video == DeliveriesTotal("document") {
		t.Fatal("shapes must have distinct counters")
	}
}
