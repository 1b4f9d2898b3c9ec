// Package analyzer scores free-text resolutions with a fixed set of keyword
// and pattern rules and classifies them as achievable, optimistic or
// delusional.
//
// Everything in this package is deterministic and free of shared mutable
// state; Analyze may be called concurrently from any number of goroutines.
package analyzer

// Result is the verdict for one resolution.
type Result struct {
	Verdict  Verdict `json:"verdict"`
	Tag      string  `json:"tag"`
	Headline string  `json:"headline"`
	Advice   string  `json:"advice"`
	Score    int     `json:"score"`
}

// Path names the branch of the decision procedure that produced a Result.
type Path string

const (
	PathEmpty    Path = "empty"
	PathHardFlag Path = "hard_flag"
	PathScored   Path = "scored"
)

// Hit is one scoring rule that fired.
type Hit struct {
	RuleID string `json:"rule_id"`
	Delta  int    `json:"delta"`
}

// Report is a Result together with how it was reached.
type Report struct {
	Result     Result `json:"result"`
	Normalized string `json:"normalized"`
	Path       Path   `json:"path"`
	HardFlag   string `json:"hard_flag,omitempty"`
	Baseline   int    `json:"baseline,omitempty"`
	RawScore   int    `json:"raw_score,omitempty"`
	Hits       []Hit  `json:"hits,omitempty"`
}

var (
	emptyResult = Result{
		Verdict:  VerdictAchievable,
		Tag:      tagAchievable,
		Headline: "Start with something you can do today.",
		Advice:   "Write a one-sentence resolution with a small scope and a weekly cadence.",
		Score:    0,
	}
	hardFlagResult = Result{
		Verdict:  VerdictDelusional,
		Tag:      tagDelusional,
		Headline: "We love the audacity. Physics and calendars are less impressed.",
		Advice:   "Keep the dream; resize the timeline. Pick a 4–8 week mini‑goal that proves the concept.",
		Score:    hardFlagScore,
	}
)

const (
	headlineAchievable = "Refreshingly sane. Your future self can high‑five this without spraining a wrist."
	adviceAchievable   = "Put the first 30‑minute rep on your calendar this week. Systems > vibes."

	headlineOptimistic     = "Spicy, but doable—with structure and a realistic ramp."
	adviceOptimisticVague  = "Make it concrete: Try “3x/week for 20–30 min” and add a 4‑week check‑in to adjust."
	adviceOptimisticPaced  = "Pilot it for 4 weeks. If it sticks 60%+ of the time, level up. If not, make it easier."
	headlineDelusional     = "Your goal is serving main‑character energy. Your schedule is a background extra."
	adviceDelusionalScored = "Shrink the scope by 80% and extend the timeline by 3×. Make it winnable in weeks, not montages."
)

// Analyze returns the verdict for raw. It never fails.
func Analyze(raw string) Result {
	return Explain(raw).Result
}

// Explain runs the same decision procedure as Analyze and also records the
// branch taken and every scoring rule that fired.
func Explain(raw string) Report {
	text := Normalize(raw)
	rep := Report{Normalized: text}

	if text == "" {
		rep.Path = PathEmpty
		rep.Result = emptyResult
		return rep
	}

	for _, f := range hardFlagTable {
		if f.match(text) {
			rep.Path = PathHardFlag
			rep.HardFlag = f.ID
			rep.Result = hardFlagResult
			return rep
		}
	}

	s := newSample(text)
	score := baselineScore
	for _, r := range scoringRuleTable {
		if r.match(s) {
			score += r.Delta
			rep.Hits = append(rep.Hits, Hit{RuleID: r.ID, Delta: r.Delta})
		}
	}

	rep.Path = PathScored
	rep.Baseline = baselineScore
	rep.RawScore = score
	rep.Result = classify(text, clamp(score))
	return rep
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func scoreVerdict(score int) Verdict {
	switch {
	case score >= achievableThreshold:
		return VerdictAchievable
	case score >= optimisticThreshold:
		return VerdictOptimistic
	default:
		return VerdictDelusional
	}
}

func classify(text string, score int) Result {
	v := scoreVerdict(score)
	res := Result{Verdict: v, Tag: v.Tag(), Score: score}

	switch v {
	case VerdictAchievable:
		res.Headline = headlineAchievable
		res.Advice = adviceAchievable
	case VerdictOptimistic:
		res.Headline = headlineOptimistic
		if needsCadence(text) {
			res.Advice = adviceOptimisticVague
		} else {
			res.Advice = adviceOptimisticPaced
		}
	case VerdictDelusional:
		res.Headline = headlineDelusional
		res.Advice = adviceDelusionalScored
	}
	return res
}
