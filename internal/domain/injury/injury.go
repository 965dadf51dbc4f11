// Package injury resolves the final outcome of an injury given an optional
// apothecary intervention, and validates injury payloads before append.
package injury

import (
	"fmt"
	"strings"

	"blitzlog/internal/domain/event"
)

// Injury result values. RECOVERED is the only outcome that does not count
// as a casualty.
const (
	ResultRecovered     = "RECOVERED"
	ResultBadlyHurt     = "BADLY_HURT"
	ResultSeriousInjury = "SERIOUS_INJURY"
	ResultNiggling      = "NIGGLING"
	ResultStat          = "STAT"
	ResultDead          = "DEAD"
)

// Injury cause values.
const (
	CauseBlock = "BLOCK"
	CauseFoul  = "FOUL"
	CauseCrowd = "CROWD"
	CauseOther = "OTHER"
)

// Deprecated apothecary outcome values still present in old logs. They are
// normalized here, at the one documented boundary, so folds and aggregators
// stay free of historical special cases.
const (
	legacySaved         = "SAVED"
	legacyDiedAnyway    = "DIED_ANYWAY"
	legacyChangedResult = "CHANGED_RESULT"
	legacyUnknown       = "UNKNOWN"
)

// Outcome is the final resolved result of an injury.
type Outcome struct {
	// Result is RECOVERED or one of the injury result values.
	Result string
	// Stat is the affected characteristic, set only when Result is STAT.
	Stat string
}

// CountsAsCasualty reports whether the outcome is a real casualty: anything
// other than a full recovery. This gates SPP awards and report counts.
func (o Outcome) CountsAsCasualty() bool {
	return o.Result != "" && o.Result != ResultRecovered
}

// normalizeApothecaryOutcome maps legacy stored values onto the current
// enumeration. CHANGED_RESULT and UNKNOWN carry no information and resolve
// to "no override".
func normalizeApothecaryOutcome(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case legacySaved:
		return ResultRecovered
	case legacyDiedAnyway:
		return ResultDead
	case legacyChangedResult, legacyUnknown:
		return ""
	default:
		return strings.ToUpper(strings.TrimSpace(raw))
	}
}

// FinalOutcome resolves the definitive outcome of an injury payload.
//
// Without an apothecary the raw result stands. With one, its outcome
// supersedes the raw result, except that legacy no-override values fall
// back to the raw result. The STAT subtype prefers the apothecary's stat.
func FinalOutcome(p event.InjuryPayload) Outcome {
	result := strings.ToUpper(strings.TrimSpace(p.Result))
	stat := p.Stat

	if p.ApothecaryUsed {
		if override := normalizeApothecaryOutcome(p.ApothecaryOutcome); override != "" {
			result = override
		}
	}

	out := Outcome{Result: result}
	if result == ResultStat {
		if p.ApothecaryUsed && p.ApothecaryStat != "" {
			out.Stat = p.ApothecaryStat
		} else {
			out.Stat = stat
		}
	}
	return out
}

// Validate checks an injury payload against the domain's explicit rules and
// returns human-readable problems for the caller to surface before append.
// An empty slice means the payload is acceptable.
func Validate(p event.InjuryPayload) []string {
	var problems []string

	if strings.TrimSpace(p.Victim) == "" {
		problems = append(problems, "injury requires a victim")
	}
	if strings.TrimSpace(p.Result) == "" {
		problems = append(problems, "injury requires a result")
	}

	cause := strings.ToUpper(strings.TrimSpace(p.Cause))
	if (cause == CauseBlock || cause == CauseFoul) && strings.TrimSpace(p.Causer) == "" {
		problems = append(problems, fmt.Sprintf("cause %s requires a causing player", cause))
	}

	out := FinalOutcome(p)
	if out.Result == ResultStat && strings.TrimSpace(out.Stat) == "" {
		problems = append(problems, "a STAT result requires a stat subtype")
	}

	return problems
}
