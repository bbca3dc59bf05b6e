package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// TrackingUpdate is a parsed progress report against an emitted
// checklist, referencing an item by identifier or 1-based ordinal.
type TrackingUpdate struct {
	Identifier string
	Ordinal    int
}

var (
	completionVerbs = regexp.MustCompile(`(?i)\b(completed?|done|finished?|checked(?:\s+off)?)\b`)
	itemRef         = regexp.MustCompile(`(?i)\b(?:item|step|task)\s+([0-9]+(?:\.[0-9]+)*)\b`)
)

// ParseTrackingUpdate recognizes messages like "completed item 2" or
// "item 3.1 is done". It returns false for anything that does not read
// as a completion report, which the caller treats as a new task.
func ParseTrackingUpdate(message string) (TrackingUpdate, bool) {
	if !completionVerbs.MatchString(message) {
		return TrackingUpdate{}, false
	}
	match := itemRef.FindStringSubmatch(message)
	if match == nil {
		return TrackingUpdate{}, false
	}

	ref := match[1]
	if strings.Contains(ref, ".") {
		return TrackingUpdate{Identifier: ref}, true
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return TrackingUpdate{Identifier: ref}, true
	}
	// A plain number may be either an ordinal or an identifier; MarkDone
	// tries the identifier first.
	return TrackingUpdate{Identifier: ref, Ordinal: n}, true
}

// ApplyTracking flips the referenced item's completion flag on a copy of
// the emitted checklist. No skills run: the update is purely structural.
// When the last open item closes, the reply summarizes the full run and
// the workflow reports complete.
func (m *Memory) ApplyTracking(prior *memory.AgentState, message string, upd TrackingUpdate) (*memory.AgentState, string, bool) {
	next := prior.Clone()
	next.AppendTurn(memory.RoleUser, message)

	pkg := next.Working.Final
	if pkg == nil {
		reply := "There is no emitted checklist to track against yet."
		next.AppendTurn(memory.RoleAssistant, reply)
		return next, reply, false
	}

	item, ok := pkg.MarkDone(upd.Identifier, upd.Ordinal)
	if !ok {
		reply := fmt.Sprintf("I could not find item %q in the checklist.", trackingRef(upd))
		next.AppendTurn(memory.RoleAssistant, reply)
		return next, reply, false
	}

	done, total := pkg.DoneCount(), pkg.ItemCount()
	next.RecordProgress(workflow.PhaseWaitingForTaskInput, workflow.PhaseWaitingForTaskInput,
		fmt.Sprintf("Marked %q done (%d/%d).", item.Title, done, total))

	var reply string
	if pkg.AllDone() {
		reply = completionSummary(next, total)
	} else {
		reply = fmt.Sprintf("Marked %q as done. %d of %d items complete.", item.Title, done, total)
	}
	next.AppendTurn(memory.RoleAssistant, reply)
	return next, reply, pkg.AllDone()
}

func trackingRef(upd TrackingUpdate) string {
	if upd.Identifier != "" {
		return upd.Identifier
	}
	return strconv.Itoa(upd.Ordinal)
}

// completionSummary builds the closing message from the progress log
// once every checklist item is marked done.
func completionSummary(state *memory.AgentState, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "All %d checklist items are complete. Recent progress:\n", total)
	entries := state.Progress
	if len(entries) > 5 {
		entries = entries[len(entries)-5:]
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s\n", e.Summary)
	}
	b.WriteString("Nice work seeing it through.")
	return b.String()
}
