// v0
// internal/status/evaluate.go
package status

import "tumbuhkan/hydro/internal/taxonomy"

// Status is the overall system condition derived from a LabelSet.
type Status string

const (
	Optimal  Status = "Optimal"
	Warning  Status = "Warning"
	Critical Status = "Critical"
)

// Advisory is the action code published alongside the status.
type Advisory string

const (
	AllNormal      Advisory = "ALL_NORMAL"
	NeedsAttention Advisory = "NEEDS_ATTENTION"
	AlertCritical  Advisory = "ALERT_CRITICAL"
)

// Result bundles the status with its advisory and display hints.
type Result struct {
	Status   Status
	Advisory Advisory
	Icon     string
	Color    string
}

// Evaluate maps a LabelSet to the overall system status. Precedence is
// strict top-down: Critical first, Optimal second, Warning is the catch-all.
// Unknown and Error labels match none of the checks and always land in
// Warning, so a degraded classifier can never report Optimal.
func Evaluate(ls taxonomy.LabelSet) Result {
	criticalPH := ls.PH == taxonomy.TooLow || ls.PH == taxonomy.TooHigh
	criticalTDS := ls.TDS == taxonomy.TooLow || ls.TDS == taxonomy.TooHigh
	criticalAmbient := ls.Ambient == taxonomy.Bad

	switch {
	case criticalPH || criticalTDS || criticalAmbient:
		return Result{Status: Critical, Advisory: AlertCritical, Icon: "🚨", Color: "red"}
	case ls.PH == taxonomy.Normal && ls.TDS == taxonomy.Normal &&
		ls.Ambient == taxonomy.Ideal && ls.Light == taxonomy.Normal:
		return Result{Status: Optimal, Advisory: AllNormal, Icon: "✅", Color: "green"}
	default:
		return Result{Status: Warning, Advisory: NeedsAttention, Icon: "⚠️", Color: "orange"}
	}
}
