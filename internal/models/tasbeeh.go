// ABOUTME: Tasbeeh (dhikr) counter state with phrase and target selection
// ABOUTME: A zero target means the count is open-ended

package models

import "fmt"

// Phrases are the dhikr phrases the counter cycles through.
var Phrases = []string{
	"سبحان الله",
	"الحمد لله",
	"لا إله إلا الله",
	"الله أكبر",
	"أستغفر الله",
	"لا حول ولا قوة إلا بالله",
	"اللهم صل على محمد",
}

// Targets are the selectable goals; 0 is unlimited.
var Targets = []int{33, 100, 1000, 0}

// Tasbeeh is the persisted counter.
type Tasbeeh struct {
	PhraseIndex int `json:"phrase_index" yaml:"phrase_index"`
	Target      int `json:"target" yaml:"target"`
	Count       int `json:"count" yaml:"count"`
}

// NewTasbeeh starts on the first phrase with the first target.
func NewTasbeeh() *Tasbeeh {
	return &Tasbeeh{Target: Targets[0]}
}

// Phrase returns the selected phrase.
func (t *Tasbeeh) Phrase() string {
	if t.PhraseIndex < 0 || t.PhraseIndex >= len(Phrases) {
		return Phrases[0]
	}
	return Phrases[t.PhraseIndex]
}

// Increment counts one tap and reports whether the target was just reached.
func (t *Tasbeeh) Increment() (reachedTarget bool) {
	t.Count++
	return t.Target > 0 && t.Count == t.Target
}

// Reset zeroes the count.
func (t *Tasbeeh) Reset() {
	t.Count = 0
}

// SetPhrase selects a phrase by index. The count is kept.
func (t *Tasbeeh) SetPhrase(i int) error {
	if i < 0 || i >= len(Phrases) {
		return fmt.Errorf("phrase index must be between 0 and %d", len(Phrases)-1)
	}
	t.PhraseIndex = i
	return nil
}

// SetTarget selects one of Targets and restarts the count.
func (t *Tasbeeh) SetTarget(target int) error {
	for _, v := range Targets {
		if v == target {
			t.Target = target
			t.Count = 0
			return nil
		}
	}
	return fmt.Errorf("target must be one of %v", Targets)
}

// Progress is count/target in [0, 1]; always 0 for an open target.
func (t *Tasbeeh) Progress() float64 {
	if t.Target <= 0 {
		return 0
	}
	p := float64(t.Count) / float64(t.Target)
	if p > 1 {
		return 1
	}
	return p
}
