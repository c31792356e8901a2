package check

import (
	"encoding/json"
	"fmt"
)

// Verdict is the outcome of a single readiness check. Verdicts are totally
// ordered by severity so that a set of them can be folded into a single
// worst-wins outcome: Fail > Warn > Pass > Skip.
type Verdict int

const (
	VerdictSkip Verdict = iota
	VerdictPass
	VerdictWarn
	VerdictFail
)

func (v Verdict) String() string {
	switch v {
	case VerdictSkip:
		return "Skip"
	case VerdictPass:
		return "Pass"
	case VerdictWarn:
		return "Warn"
	case VerdictFail:
		return "Fail"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalJSON encodes the verdict as its token string.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a verdict token string.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "Skip":
		*v = VerdictSkip
	case "Pass":
		*v = VerdictPass
	case "Warn":
		*v = VerdictWarn
	case "Fail":
		*v = VerdictFail
	default:
		return fmt.Errorf("unknown verdict %q", s)
	}

	return nil
}

// Worst folds verdicts with the worst-wins rule. The fold is associative and
// commutative, so callers may accumulate in any order. An empty input yields
// VerdictSkip, the bottom of the order.
func Worst(verdicts ...Verdict) Verdict {
	worst := VerdictSkip
	for _, v := range verdicts {
		if v > worst {
			worst = v
		}
	}

	return worst
}
