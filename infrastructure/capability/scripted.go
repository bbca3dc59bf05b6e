package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// ScriptedProvider replays pre-seeded responses in FIFO order per skill.
// It backs deterministic tests and offline demos: no network, no model.
type ScriptedProvider struct {
	mu       sync.Mutex
	skills   map[workflow.SkillID][]json.RawMessage
	searches []research.SearchResult
	failures map[workflow.SkillID][]error
	calls    []workflow.SkillID
}

// NewScripted creates an empty scripted provider.
func NewScripted() *ScriptedProvider {
	return &ScriptedProvider{
		skills:   make(map[workflow.SkillID][]json.RawMessage),
		failures: make(map[workflow.SkillID][]error),
	}
}

// Queue appends a raw JSON response for the given skill. The value is
// marshaled so tests can queue typed outputs directly.
func (p *ScriptedProvider) Queue(id workflow.SkillID, out any) *ScriptedProvider {
	raw, err := json.Marshal(out)
	if err != nil {
		panic(fmt.Sprintf("scripted queue: %v", err))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skills[id] = append(p.skills[id], raw)
	return p
}

// QueueRaw appends a raw JSON response without marshaling.
func (p *ScriptedProvider) QueueRaw(id workflow.SkillID, raw json.RawMessage) *ScriptedProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skills[id] = append(p.skills[id], raw)
	return p
}

// QueueSearch appends a search result for the research tool.
func (p *ScriptedProvider) QueueSearch(result research.SearchResult) *ScriptedProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches = append(p.searches, result)
	return p
}

// FailNext makes the next invocation of the skill return err before any
// queued response is consumed.
func (p *ScriptedProvider) FailNext(id workflow.SkillID, err error) *ScriptedProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[id] = append(p.failures[id], err)
	return p
}

// Calls returns the skills invoked so far, in order.
func (p *ScriptedProvider) Calls() []workflow.SkillID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]workflow.SkillID, len(p.calls))
	copy(out, p.calls)
	return out
}

// InvokeSkill pops the next queued response for the skill.
func (p *ScriptedProvider) InvokeSkill(ctx context.Context, id workflow.SkillID, prompt string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, id)

	if errs := p.failures[id]; len(errs) > 0 {
		err := errs[0]
		p.failures[id] = errs[1:]
		return nil, err
	}

	queued := p.skills[id]
	if len(queued) == 0 {
		return nil, fmt.Errorf("scripted provider: no response queued for skill %s", id)
	}
	p.skills[id] = queued[1:]
	return queued[0], nil
}

// InvokeTool pops the next queued search result.
func (p *ScriptedProvider) InvokeTool(ctx context.Context, id workflow.ToolID, req research.SearchRequest) (research.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return research.SearchResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.searches) == 0 {
		return research.SearchResult{}, fmt.Errorf("scripted provider: no search result queued for tool %s", id)
	}
	result := p.searches[0]
	p.searches = p.searches[1:]
	if result.Query == "" {
		result.Query = req.Query
	}
	return result, nil
}
