// Package pipeline sequences one internscout run as a small state machine:
// planning, scraping, extracting, deduplicating and, when something new was
// found, notifying.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/scrape"
)

// Stage names one step of a run.
type Stage string

const (
	StagePlanning      Stage = "planning"
	StageScraping      Stage = "scraping"
	StageExtracting    Stage = "extracting"
	StageDeduplicating Stage = "deduplicating"
	StageNotifying     Stage = "notifying"
	StageDone          Stage = "done"
)

// State is everything accumulated over one run.
type State struct {
	RunID     string
	Stage     Stage // last stage entered
	Prefs     model.PreferenceSpec
	SentIDs   []string // ledger contents at planning, plus ids attempted this run
	Tasks     []model.SiteTask
	Sites     []scrape.SiteResult
	Raw       []model.RawRecord
	Relevant  []model.Opportunity
	Fresh     []model.Opportunity
	Attempted []string
	Log       RunLog
}

// Delta is what a stage handler contributes. Nil fields leave the state
// unchanged; Log is always appended.
type Delta struct {
	Prefs     *model.PreferenceSpec
	SentIDs   *[]string
	Tasks     *[]model.SiteTask
	Sites     *[]scrape.SiteResult
	Raw       *[]model.RawRecord
	Relevant  *[]model.Opportunity
	Fresh     *[]model.Opportunity
	Attempted *[]string
	Log       []model.LogEntry
}

func (s *State) merge(d Delta) {
	if d.Prefs != nil {
		s.Prefs = *d.Prefs
	}
	if d.SentIDs != nil {
		s.SentIDs = *d.SentIDs
	}
	if d.Tasks != nil {
		s.Tasks = *d.Tasks
	}
	if d.Sites != nil {
		s.Sites = *d.Sites
	}
	if d.Raw != nil {
		s.Raw = *d.Raw
	}
	if d.Relevant != nil {
		s.Relevant = *d.Relevant
	}
	if d.Fresh != nil {
		s.Fresh = *d.Fresh
	}
	if d.Attempted != nil {
		s.Attempted = *d.Attempted
	}
	s.Log = append(s.Log, d.Log...)
}

// next is the transition function. The only branch is after
// deduplication: notify iff something new was found.
func next(stage Stage, s State) Stage {
	switch stage {
	case StagePlanning:
		return StageScraping
	case StageScraping:
		return StageExtracting
	case StageExtracting:
		return StageDeduplicating
	case StageDeduplicating:
		if len(s.Fresh) > 0 {
			return StageNotifying
		}
		return StageDone
	default:
		return StageDone
	}
}

func ptr[T any](v T) *T { return &v }

// RunLog is the append-only record of stage completions.
type RunLog []model.LogEntry

// Summary renders the log as the final textual report, one line per entry.
func (l RunLog) Summary() string {
	var b strings.Builder
	for _, e := range l {
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(e.Stage), e.Message)
	}
	return b.String()
}
