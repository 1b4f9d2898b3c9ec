package analyzer

import "regexp"

const (
	bundleID      = "resocheck-rules"
	bundleVersion = "1.0.0"

	baselineScore = 50
	hardFlagScore = 15
	minScore      = 0
	maxScore      = 100

	achievableThreshold = 70
	optimisticThreshold = 45
)

var spelledNumbers = []string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "eleven", "twelve",
}

var timeUnits = []string{
	"day", "days", "week", "weeks", "month", "months", "year", "years",
	"daily", "weekly", "monthly", "quarter", "quarters",
}

var absolutes = []string{"never", "always", "forever", "no exceptions", "every single day"}

var ambitiousKeywords = []string{
	"marathon", "half marathon", "ultra", "startup", "business",
	"promotion", "promote", "raise", "career change", "switch career",
	"learn", "language", "fluency", "spanish", "french", "german", "mandarin", "japanese",
	"public speaking", "publish", "newsletter", "course", "write a book", "book a talk",
	"lose", "pounds", "kg", "save", "$", "k", "invest", "budget",
}

var vaguePhrases = []string{
	"get fit", "be healthier", "work harder", "be happy", "be productive", "do more", "improve",
}

var delusionKeywords = []string{
	"billionaire", "billion", "unicorn", "nobel", "olympic", "olympics", "world champion", "world record",
	"viral", "million followers", "1,000,000 followers", "1 million followers", "be famous",
	"six pack in 2 weeks", "six-pack in 2 weeks", "abs in 2 weeks",
}

var hugeKeywords = []string{
	"millionaire", "billionaire", "unicorn", "nobel", "olympic", "world champion", "world record", "movie star",
}

var (
	reDigit = regexp.MustCompile(`\d`)

	reCadenceUnit = regexp.MustCompile(`\b\d+\s?(?:x/|x|times|per|/)\s?(?:day|week|month|year|daily|weekly|monthly)\b`)
	reDuration    = regexp.MustCompile(`\b\d+\s?(?:minutes?|hrs?|hours?)\b`)
	reQuantity    = regexp.MustCompile(`\b\d+\s?(?:books?|miles?|km|kilometers?|pushups?|pages?|dollars?|£|€|\$)\b`)

	reMarathon     = regexp.MustCompile(`\bmarathon\b`)
	reActionVerb   = regexp.MustCompile(`\b(?:start|launch|build)\b`)
	reCareerTerm   = regexp.MustCompile(`\b(?:promote|promotion|raise)\b`)
	reLearningVerb = regexp.MustCompile(`\b(?:learn|study|practice)\b`)

	reEveryDay          = regexp.MustCompile(`\bevery day\b`)
	reZeroSugar         = regexp.MustCompile(`\b(?:no|zero)\s+sugar\b`)
	reAggressiveCadence = regexp.MustCompile(`\b(?:7x|7 times|every day)\b`)

	reShortTimeframe  = regexp.MustCompile(`\b(?:this|next)?\s?(?:month|week|q[1-4]|quarter)\b`)
	reFluency         = regexp.MustCompile(`\b(?:fluent|fluency)\b`)
	reFluencyWindow   = regexp.MustCompile(`\b(?:a week|(?:one|two|three|four|1|2|3|4) weeks?|7 days|14 days|month)\b`)
	rePhysique        = regexp.MustCompile(`\b(?:six[- ]?pack|abs)\b`)
	rePhysiqueWindow  = regexp.MustCompile(`\b(?:(?:7|14|21)\s?days?|weeks?)\b`)
	reOneMillion      = regexp.MustCompile(`\b(?:1\s?000\s?000|1,000,000|1\s?million|one million)\b`)
	reMillionDeadline = regexp.MustCompile(`\b(?:week|month|30 days)\b`)

	reCadenceMarker = regexp.MustCompile(`\b(?:per|/|x)\b`)
	reCadenceWord   = regexp.MustCompile(`\b(?:daily|weekly|monthly)\b`)
)

// sample is the normalized text plus the signals several rules share.
type sample struct {
	text     string
	numeric  bool
	timeUnit bool
}

func newSample(text string) sample {
	return sample{
		text:     text,
		numeric:  reDigit.MatchString(text) || containsAny(text, spelledNumbers),
		timeUnit: containsAny(text, timeUnits),
	}
}

type hardFlag struct {
	ID          string
	Description string
	match       func(text string) bool
}

type scoringRule struct {
	ID          string
	Description string
	Delta       int
	match       func(s sample) bool
}

func hardFlags() []hardFlag {
	return []hardFlag{
		{ID: "extreme_keyword", Description: "extreme achievement keyword", match: func(t string) bool {
			return containsAny(t, delusionKeywords)
		}},
		{ID: "grandiose_short_timeframe", Description: "grandiose outcome within a month, week or quarter", match: func(t string) bool {
			return containsAny(t, hugeKeywords) && reShortTimeframe.MatchString(t)
		}},
		{ID: "fluency_crash_course", Description: "fluency within one to four weeks", match: func(t string) bool {
			return reFluency.MatchString(t) && reFluencyWindow.MatchString(t)
		}},
		{ID: "physique_crash_course", Description: "six-pack within days or weeks", match: func(t string) bool {
			return rePhysique.MatchString(t) && rePhysiqueWindow.MatchString(t)
		}},
		{ID: "million_short_timeframe", Description: "one million within a week, month or 30 days", match: func(t string) bool {
			return reOneMillion.MatchString(t) && reMillionDeadline.MatchString(t)
		}},
	}
}

func scoringRules() []scoringRule {
	return []scoringRule{
		{ID: "cadence_unit", Description: "number with an explicit frequency", Delta: 25, match: func(s sample) bool {
			return reCadenceUnit.MatchString(s.text)
		}},
		{ID: "duration", Description: "number of minutes or hours", Delta: 15, match: func(s sample) bool {
			return reDuration.MatchString(s.text)
		}},
		{ID: "quantity", Description: "countable quantity", Delta: 15, match: func(s sample) bool {
			return reQuantity.MatchString(s.text)
		}},
		{ID: "time_unit_word", Description: "mentions a time unit", Delta: 10, match: func(s sample) bool {
			return s.timeUnit
		}},
		{ID: "numeric_signal", Description: "contains a number", Delta: 8, match: func(s sample) bool {
			return s.numeric
		}},
		{ID: "ambition_keyword", Description: "ambitious topic", Delta: 15, match: func(s sample) bool {
			return containsAny(s.text, ambitiousKeywords)
		}},
		{ID: "marathon", Description: "mentions a marathon", Delta: 15, match: func(s sample) bool {
			return reMarathon.MatchString(s.text)
		}},
		{ID: "action_verb", Description: "start, launch or build", Delta: 10, match: func(s sample) bool {
			return reActionVerb.MatchString(s.text)
		}},
		{ID: "career_term", Description: "promotion or raise", Delta: 10, match: func(s sample) bool {
			return reCareerTerm.MatchString(s.text)
		}},
		{ID: "learning_verb", Description: "learn, study or practice", Delta: 8, match: func(s sample) bool {
			return reLearningVerb.MatchString(s.text)
		}},
		{ID: "absolute_language", Description: "absolute language", Delta: -25, match: func(s sample) bool {
			return containsAny(s.text, absolutes)
		}},
		{ID: "every_day", Description: "says every day", Delta: -10, match: func(s sample) bool {
			return reEveryDay.MatchString(s.text)
		}},
		{ID: "zero_sugar", Description: "zero-tolerance diet", Delta: -10, match: func(s sample) bool {
			return reZeroSugar.MatchString(s.text)
		}},
		{ID: "vague_untimed", Description: "no number and no time unit", Delta: -12, match: func(s sample) bool {
			return !s.numeric && !s.timeUnit
		}},
		{ID: "vague_phrase", Description: "vague goal phrasing", Delta: -10, match: func(s sample) bool {
			return containsAny(s.text, vaguePhrases)
		}},
		{ID: "aggressive_cadence", Description: "seven days a week", Delta: -6, match: func(s sample) bool {
			return reAggressiveCadence.MatchString(s.text)
		}},
	}
}

var (
	hardFlagTable    = hardFlags()
	scoringRuleTable = scoringRules()
)

// needsCadence reports whether text lacks any explicit frequency marker.
func needsCadence(text string) bool {
	return !reCadenceMarker.MatchString(text) && !reCadenceWord.MatchString(text)
}

// RuleInfo describes a single rule for listings.
type RuleInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Delta       int    `json:"delta,omitempty"`
}

// RuleSetInfo describes the compiled rule bundle.
type RuleSetInfo struct {
	BundleID      string     `json:"bundle_id"`
	BundleVersion string     `json:"bundle_version"`
	Baseline      int        `json:"baseline"`
	HardFlagScore int        `json:"hard_flag_score"`
	AchievableMin int        `json:"achievable_min"`
	OptimisticMin int        `json:"optimistic_min"`
	HardFlags     []RuleInfo `json:"hard_flags"`
	ScoringRules  []RuleInfo `json:"scoring_rules"`
}

// RuleSet returns a fresh description of the rule tables in evaluation order.
func RuleSet() RuleSetInfo {
	info := RuleSetInfo{
		BundleID:      bundleID,
		BundleVersion: bundleVersion,
		Baseline:      baselineScore,
		HardFlagScore: hardFlagScore,
		AchievableMin: achievableThreshold,
		OptimisticMin: optimisticThreshold,
		HardFlags:     make([]RuleInfo, 0, len(hardFlagTable)),
		ScoringRules:  make([]RuleInfo, 0, len(scoringRuleTable)),
	}
	for _, f := range hardFlagTable {
		info.HardFlags = append(info.HardFlags, RuleInfo{ID: f.ID, Description: f.Description})
	}
	for _, r := range scoringRuleTable {
		info.ScoringRules = append(info.ScoringRules, RuleInfo{ID: r.ID, Description: r.Description, Delta: r.Delta})
	}
	return info
}

// String renders a one-line summary of the bundle.
func (i RuleSetInfo) String() string {
	return i.BundleID + "@" + i.BundleVersion
}
