package ui

import (
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const IndicatorConnecting = "Reaching your coach..."

// CoachingWords rotate while a reply is on its way.
var CoachingWords = []string{
	"Warming up...",
	"Stretching...",
	"Spotting...",
	"Counting reps...",
	"Racking weights...",
	"Hydrating...",
	"Pacing...",
	"Checking form...",
	"Planning sets...",
	"Catching breath...",
	"Tying laces...",
	"Chalking up...",
	"Cooling down...",
	"Foam rolling...",
	"Meal prepping...",
}

// GetRandomCoachingWord returns one of CoachingWords.
func GetRandomCoachingWord() string {
	return CoachingWords[rand.Intn(len(CoachingWords))]
}

type Indicator struct {
	mu           sync.Mutex
	s            *spinner.Spinner
	rotating     bool
	lastRotation time.Time
	lastWord     string
}

var (
	globalIndicator *Indicator
	indicatorOnce   sync.Once
)

// GetIndicator returns the singleton indicator instance
func GetIndicator() *Indicator {
	indicatorOnce.Do(func() {
		globalIndicator = &Indicator{
			rotating: true,
		}
		globalIndicator.setupSpinner()
	})
	return globalIndicator
}

func (i *Indicator) setupSpinner() {
	i.s = spinner.New(spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	i.s.Color("fgHiGreen", "bold")

	i.s.PreUpdate = func(s *spinner.Spinner) {
		i.mu.Lock()
		defer i.mu.Unlock()
		if !i.rotating || time.Since(i.lastRotation) <= 2*time.Second {
			return
		}
		word := GetRandomCoachingWord()
		for word == i.lastWord && len(CoachingWords) > 1 {
			word = GetRandomCoachingWord()
		}
		s.Suffix = " " + word
		i.lastWord = word
		i.lastRotation = time.Now()
	}
}

func (i *Indicator) IsActive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.s != nil && i.s.Active()
}

func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.s != nil && i.s.Active() {
		i.s.Stop()
	}
}

// Start shows the spinner with text, or with rotating coaching words when text is empty.
func (i *Indicator) Start(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if text == "" {
		i.rotating = true
		text = GetRandomCoachingWord()
		i.lastWord = text
		i.lastRotation = time.Now()
	} else {
		i.rotating = false
	}

	if i.s.Active() {
		i.s.Stop()
	}

	i.s.Lock()
	i.s.Suffix = " " + text
	i.s.Unlock()
	i.s.Start()
}

// Update replaces the text of a running indicator without restarting it.
func (i *Indicator) Update(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.rotating = false
	i.s.Lock()
	i.s.Suffix = " " + text
	i.s.Unlock()
}
