package persona

import "strings"

// toneRule maps a keyword found in a persona's goals to an emotional tone.
// Rules are matched in order; the first hit wins.
type toneRule struct {
	keyword string
	tone    string
}

// Work-oriented keywords checked first, then complex emotional situations,
// then basic emotions. Mirrors how people describe goals: the activity
// usually comes before the feeling.
var workToneRules = []toneRule{
	{"efficiency", "focused"},
	{"creativity", "inspired"},
	{"innovation", "excited"},
	{"problem-solving", "determined"},
	{"teamwork", "collaborative"},
	{"deadline", "urgent"},
	{"challenge", "motivated"},
	{"growth", "ambitious"},
	{"learning", "curious"},
	{"improvement", "reflective"},
}

var complexToneRules = []toneRule{
	{"conflict", "frustrated"},
	{"uncertainty", "anxious"},
	{"pressure", "overwhelmed"},
	{"change", "apprehensive"},
	{"failure", "disappointed"},
	{"success", "elated"},
	{"achievement", "proud"},
}

var basicToneRules = []toneRule{
	{"happiness", "happy"},
	{"sadness", "sad"},
	{"anger", "angry"},
	{"fear", "afraid"},
	{"surprise", "surprised"},
}

// toneWeights scores each tone's contribution to project-success prediction.
// Productive tones score high, distressed tones negative.
var toneWeights = map[string]int{
	"focused":       10,
	"inspired":      9,
	"excited":       8,
	"determined":    7,
	"collaborative": 6,
	"urgent":        5,
	"motivated":     4,
	"ambitious":     3,
	"curious":       2,
	"reflective":    1,
	"frustrated":    -1,
	"anxious":       -2,
	"overwhelmed":   -3,
	"apprehensive":  -4,
	"disappointed":  -5,
	"elated":        10,
	"proud":         9,
	"happy":         8,
	"sad":           -6,
	"angry":         -7,
	"afraid":        -8,
	"surprised":     0,
	"neutral":       0,
}

var positiveTones = map[string]bool{
	"focused":       true,
	"inspired":      true,
	"excited":       true,
	"determined":    true,
	"collaborative": true,
	"urgent":        true,
	"motivated":     true,
	"ambitious":     true,
	"curious":       true,
	"reflective":    true,
	"elated":        true,
	"proud":         true,
	"happy":         true,
}

// ToneFor derives an emotional tone from a free-form goal description.
// Matching is keyword-based and case-insensitive; goals that match nothing
// are "neutral".
func ToneFor(goal string) string {
	folded := strings.ToLower(goal)
	for _, rules := range [][]toneRule{workToneRules, complexToneRules, basicToneRules} {
		for _, r := range rules {
			if strings.Contains(folded, r.keyword) {
				return r.tone
			}
		}
	}
	return "neutral"
}

// ToneAssessment is the emotional read on a persona set: each persona's
// derived tone, the summed score, and the success prediction that score
// maps to.
type ToneAssessment struct {
	Tones      map[string]string
	Score      int
	Prediction string
}

// AssessTones derives each persona's tone from its goals and scores the set.
func AssessTones(set PersonaSet) ToneAssessment {
	tones := make(map[string]string, len(set))
	score := 0
	for _, p := range set {
		tone := ToneFor(p.Goals)
		tones[p.Name] = tone
		score += toneWeights[tone]
	}
	return ToneAssessment{
		Tones:      tones,
		Score:      score,
		Prediction: PredictSuccess(score),
	}
}

// PredictSuccess maps a summed tone score to a coarse outcome band.
func PredictSuccess(score int) string {
	switch {
	case score > 50:
		return "High chance of success"
	case score > 20:
		return "Moderate chance of success"
	case score > 0:
		return "Low chance of success"
	default:
		return "High risk of failure"
	}
}

// Improvements proposes a tone override for every persona whose tone is not
// positive, nudging it to "motivated". The result feeds ApplyToneEdits.
func (a ToneAssessment) Improvements() map[string]string {
	edits := make(map[string]string)
	for name, tone := range a.Tones {
		if !positiveTones[tone] {
			edits[name] = "motivated"
		}
	}
	return edits
}
