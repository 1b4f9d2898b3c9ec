package analyzer

import "fmt"

// Verdict is the three-way realism classification of a resolution.
type Verdict string

const (
	VerdictAchievable Verdict = "achievable"
	VerdictOptimistic Verdict = "optimistic"
	VerdictDelusional Verdict = "delusional"
)

// Verdicts lists every verdict from most to least realistic.
var Verdicts = []Verdict{VerdictAchievable, VerdictOptimistic, VerdictDelusional}

func (v Verdict) String() string { return string(v) }

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictAchievable, VerdictOptimistic, VerdictDelusional:
		return true
	default:
		return false
	}
}

// Badge returns the CSS/terminal badge class used when rendering v.
func (v Verdict) Badge() string {
	switch v {
	case VerdictAchievable:
		return "ok"
	case VerdictOptimistic:
		return "warn"
	case VerdictDelusional:
		return "nope"
	default:
		return ""
	}
}

// Severity orders verdicts: achievable=0, optimistic=1, delusional=2.
// Unknown verdicts return -1.
func (v Verdict) Severity() int {
	switch v {
	case VerdictAchievable:
		return 0
	case VerdictOptimistic:
		return 1
	case VerdictDelusional:
		return 2
	default:
		return -1
	}
}

// ParseVerdict converts a flag or config value into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(Normalize(s))
	if !v.Valid() {
		return "", fmt.Errorf("unknown verdict %q (want achievable, optimistic or delusional)", s)
	}
	return v, nil
}

const (
	tagAchievable = "Actually achievable ✅"
	tagOptimistic = "Optimistic but possible 💪"
	tagDelusional = "Delusional (but we admire the confidence) 🚀"
)

// Tag returns the display label for v.
func (v Verdict) Tag() string {
	switch v {
	case VerdictAchievable:
		return tagAchievable
	case VerdictOptimistic:
		return tagOptimistic
	case VerdictDelusional:
		return tagDelusional
	default:
		return ""
	}
}
