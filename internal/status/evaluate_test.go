// v0
// internal/status/evaluate_test.go
package status

import (
	"testing"

	"tumbuhkan/hydro/internal/taxonomy"
)

func ls(ph, tds, ambient, light taxonomy.Label) taxonomy.LabelSet {
	return taxonomy.LabelSet{PH: ph, TDS: tds, Ambient: ambient, Light: light}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		in       taxonomy.LabelSet
		status   Status
		advisory Advisory
	}{
		{"all ideal", ls(taxonomy.Normal, taxonomy.Normal, taxonomy.Ideal, taxonomy.Normal), Optimal, AllNormal},
		{"ph too low", ls(taxonomy.TooLow, taxonomy.Normal, taxonomy.Ideal, taxonomy.Normal), Critical, AlertCritical},
		{"ph too high", ls(taxonomy.TooHigh, taxonomy.Normal, taxonomy.Ideal, taxonomy.Normal), Critical, AlertCritical},
		{"tds too high", ls(taxonomy.Normal, taxonomy.TooHigh, taxonomy.Ideal, taxonomy.Normal), Critical, AlertCritical},
		{"ambient bad", ls(taxonomy.Normal, taxonomy.Normal, taxonomy.Bad, taxonomy.Normal), Critical, AlertCritical},
		{"light extreme alone is only a warning", ls(taxonomy.Normal, taxonomy.Normal, taxonomy.Ideal, taxonomy.TooBright), Warning, NeedsAttention},
		{"mixed non-critical", ls(taxonomy.Low, taxonomy.Normal, taxonomy.SlightlyOff, taxonomy.Normal), Warning, NeedsAttention},
		{"all unknown", taxonomy.AllUnknown(), Warning, NeedsAttention},
		{"all error", taxonomy.AllError(), Warning, NeedsAttention},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(tc.in)
			if res.Status != tc.status || res.Advisory != tc.advisory {
				t.Fatalf("got %s/%s want %s/%s", res.Status, res.Advisory, tc.status, tc.advisory)
			}
		})
	}
}

// Critical must win even when every other dimension looks ideal.
func TestCriticalPrecedesOptimal(t *testing.T) {
	for _, ph := range []taxonomy.Label{taxonomy.TooLow, taxonomy.TooHigh} {
		res := Evaluate(ls(ph, taxonomy.Normal, taxonomy.Ideal, taxonomy.Normal))
		if res.Status != Critical {
			t.Fatalf("ph=%s: expected Critical, got %s", ph, res.Status)
		}
	}
}

// A degraded classifier must never report Optimal.
func TestUnknownNeverOptimal(t *testing.T) {
	mix := ls(taxonomy.Unknown, taxonomy.Normal, taxonomy.Ideal, taxonomy.Normal)
	if res := Evaluate(mix); res.Status == Optimal {
		t.Fatal("Unknown label satisfied the Optimal check")
	}
}
