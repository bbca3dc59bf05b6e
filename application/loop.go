// Package application orchestrates the checklist workflow: the pure
// coordinator, the state applier, and the runner loop that drives both
// against skill and tool providers.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/skill"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
	"github.com/felixgeelhaar/checklist-go/infrastructure/logging"
	"github.com/felixgeelhaar/checklist-go/infrastructure/prompt"
	"github.com/felixgeelhaar/checklist-go/infrastructure/resilience"
	"github.com/felixgeelhaar/checklist-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/checklist-go/infrastructure/telemetry"
)

// DefaultMaxIterations bounds decisions executed within one Run call.
const DefaultMaxIterations = 40

// ChecklistStore persists finalized checklists and tracking copies.
type ChecklistStore interface {
	SaveFinal(ctx context.Context, threadID string, pkg *checklist.Package) error
	SaveTracking(ctx context.Context, threadID string, pkg *checklist.Package) error
}

// SessionStore persists agent state snapshots between calls.
type SessionStore interface {
	Save(ctx context.Context, state *memory.AgentState) error
}

// Response is what one Run call hands back to the caller.
type Response struct {
	Message  string
	Sections []checklist.Section
	State    *memory.AgentState
	Complete bool
	Metadata map[string]string
}

// Runner drives the workflow loop for one or more threads.
type Runner struct {
	executor      *resilience.Executor
	prompts       *prompt.Renderer
	memory        *Memory
	machine       *statemachine.Interpreter
	checklists    ChecklistStore
	sessions      SessionStore
	maxIterations int
	maxResults    int
	searchDepth   string
}

// RunnerConfig configures the runner. Executor and Prompts are required;
// stores are optional and skipped when nil.
type RunnerConfig struct {
	Executor      *resilience.Executor
	Prompts       *prompt.Renderer
	Memory        *Memory
	Checklists    ChecklistStore
	Sessions      SessionStore
	MaxIterations int

	// SearchMaxResults and SearchDepth shape web research requests.
	SearchMaxResults int
	SearchDepth      string
}

// NewRunner creates a runner from the configuration.
func NewRunner(config RunnerConfig) (*Runner, error) {
	if config.Executor == nil {
		return nil, errors.New("executor is required")
	}
	if config.Prompts == nil {
		return nil, errors.New("prompt renderer is required")
	}
	if config.Memory == nil {
		config.Memory = NewMemory(DefaultMaxRevisits)
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}

	machineCfg, err := statemachine.NewWorkflowMachine()
	if err != nil {
		return nil, fmt.Errorf("build workflow machine: %w", err)
	}
	interp := statemachine.NewInterpreter(machineCfg, statemachine.NewContext(""))
	interp.Start()

	return &Runner{
		executor:      config.Executor,
		prompts:       config.Prompts,
		memory:        config.Memory,
		machine:       interp,
		checklists:    config.Checklists,
		sessions:      config.Sessions,
		maxIterations: config.MaxIterations,
		maxResults:    config.SearchMaxResults,
		searchDepth:   config.SearchDepth,
	}, nil
}

// Run processes one user message against the prior state and executes
// decisions until the workflow pauses, completes, or fails. Engine
// failures never surface as errors: the response carries Complete false
// and the last good state, so the caller can simply retry.
func (r *Runner) Run(ctx context.Context, threadID, userMessage string, prior *memory.AgentState) (Response, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "engine.run",
		trace.WithAttributes(attribute.String("thread_id", threadID)))
	defer span.End()

	state, handled, resp := r.ingest(ctx, threadID, userMessage, prior)
	if handled {
		return resp, nil
	}

	if err := r.machine.ResumeFrom(state.Workflow.Phase); err != nil {
		return r.failure(ctx, prior, err), nil
	}

	for i := 0; i < r.maxIterations; i++ {
		decision, err := Decide(state)
		if err != nil {
			return r.failure(ctx, state, err), nil
		}

		logging.Debug().
			Add(logging.ThreadID(state.ThreadID)).
			Add(logging.Phase(state.Workflow.Phase)).
			Add(logging.Decision(decision.Type)).
			Add(logging.Iteration(i)).
			Add(logging.Reason(decision.Reason)).
			Msg("decision")

		switch decision.Type {
		case workflow.DecisionComplete:
			return r.complete(ctx, state), nil

		case workflow.DecisionNoop:
			return Response{
				Message: "Share the task you want a checklist for and I will take it from there.",
				State:   state,
			}, nil

		case workflow.DecisionRunSkill:
			next, err := r.runSkill(ctx, state, decision)
			if err != nil {
				return r.failure(ctx, state, err), nil
			}
			state = r.advance(state, next)

			if state.Working.AwaitingClarification {
				return r.pauseForClarification(ctx, state), nil
			}
			if state.Workflow.Emitted && state.Workflow.Phase == workflow.PhaseWaitingForTaskInput {
				return r.complete(ctx, state), nil
			}

		case workflow.DecisionInvokeTool:
			next, err := r.runTool(ctx, state, decision)
			if err != nil {
				return r.failure(ctx, state, err), nil
			}
			state = r.advance(state, next)

		default:
			return r.failure(ctx, state, fmt.Errorf("unknown decision type %q", decision.Type)), nil
		}
	}

	return r.failure(ctx, state, fmt.Errorf("iteration budget exhausted after %d decisions", r.maxIterations)), nil
}

// ingest folds the user message into state. Tracking updates complete
// here without entering the decision loop.
func (r *Runner) ingest(ctx context.Context, threadID, userMessage string, prior *memory.AgentState) (*memory.AgentState, bool, Response) {
	if prior == nil {
		if threadID == "" {
			threadID = uuid.NewString()
		}
		return r.memory.InitialState(threadID, userMessage), false, Response{}
	}
	if userMessage == "" {
		return prior, false, Response{}
	}

	if prior.Workflow.Emitted && prior.Working.Final != nil {
		if upd, ok := ParseTrackingUpdate(userMessage); ok {
			next, reply, complete := r.memory.ApplyTracking(prior, userMessage, upd)
			r.persistTracking(ctx, next)
			return nil, true, Response{
				Message:  reply,
				Sections: finalSections(next),
				State:    next,
				Complete: complete,
				Metadata: map[string]string{
					"items_done":  fmt.Sprintf("%d", next.Working.Final.DoneCount()),
					"items_total": fmt.Sprintf("%d", next.Working.Final.ItemCount()),
				},
			}
		}
	}

	return r.memory.IngestUserMessage(prior, userMessage), false, Response{}
}

// runSkill renders the prompt, invokes the skill, decodes and validates
// the output, and applies it to state.
func (r *Runner) runSkill(ctx context.Context, state *memory.AgentState, decision workflow.Decision) (*memory.AgentState, error) {
	def, err := skill.Get(decision.Skill)
	if err != nil {
		return nil, err
	}

	rendered, err := r.prompts.Render(def.Template, def.Inputs(state))
	if err != nil {
		return nil, fmt.Errorf("render prompt for %s: %w", decision.Skill, err)
	}

	start := time.Now()
	raw, err := r.executor.InvokeSkill(ctx, decision.Skill, rendered)
	if err != nil {
		return nil, err
	}

	out, err := def.Decode(raw)
	if err != nil {
		return nil, &skill.OutputError{Skill: decision.Skill, Err: err}
	}

	next, err := r.memory.Apply(state, decision.Skill, out)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Add(logging.ThreadID(state.ThreadID)).
		Add(logging.Skill(decision.Skill)).
		Add(logging.FromPhase(state.Workflow.Phase)).
		Add(logging.ToPhase(next.Workflow.Phase)).
		Add(logging.Duration(time.Since(start))).
		Msg("skill applied")
	return next, nil
}

// runTool performs web research and applies the normalized result.
func (r *Runner) runTool(ctx context.Context, state *memory.AgentState, decision workflow.Decision) (*memory.AgentState, error) {
	req := r.searchRequest(state)

	start := time.Now()
	result, err := r.executor.InvokeTool(ctx, decision.Tool, req)
	if err != nil {
		return nil, err
	}
	result.TaskID = state.ThreadID

	next, err := r.memory.ApplyTool(state, decision.Tool, result)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Add(logging.ThreadID(state.ThreadID)).
		Add(logging.Tool(decision.Tool)).
		Add(logging.Int("sources", len(next.Working.Sources))).
		Add(logging.Duration(time.Since(start))).
		Msg("tool applied")
	return next, nil
}

// searchRequest builds the research query from the decision phase's
// questions, falling back to the task goal.
func (r *Runner) searchRequest(state *memory.AgentState) research.SearchRequest {
	query := state.Working.TaskInput
	if state.Working.TaskOverview != nil && state.Working.TaskOverview.Goal != "" {
		query = state.Working.TaskOverview.Goal
	}
	var followUps []string
	if qs := state.Working.ResearchQuestions; len(qs) > 0 {
		query = qs[0]
		followUps = qs[1:]
	}
	return research.SearchRequest{
		Query:             query,
		FollowUpQuestions: followUps,
		MaxResults:        r.maxResults,
		SearchDepth:       r.searchDepth,
	}
}

// advance mirrors the applied phase change onto the statechart so every
// transition the applier takes is double-checked against the chart.
func (r *Runner) advance(prev, next *memory.AgentState) *memory.AgentState {
	from, to := prev.Workflow.Phase, next.Workflow.Phase
	if from != to {
		if err := r.machine.Transition(to, string(next.Workflow.LastSkill)); err != nil {
			// The applier already validated the edge; a chart refusal
			// here means the chart drifted from the transition table.
			logging.Error().
				Add(logging.FromPhase(from)).
				Add(logging.ToPhase(to)).
				Add(logging.ErrorField(err)).
				Msg("statechart rejected applied transition")
		}
	}
	return next
}

// pauseForClarification returns the scoping questions as a numbered list.
func (r *Runner) pauseForClarification(ctx context.Context, state *memory.AgentState) Response {
	var b strings.Builder
	b.WriteString("Before I scope this further, a few questions:\n")
	for i, q := range state.Working.ClarifyingQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	msg := strings.TrimRight(b.String(), "\n")

	state.AppendTurn(memory.RoleAssistant, msg)
	r.persistSession(ctx, state)
	return Response{
		Message:  msg,
		State:    state,
		Metadata: map[string]string{"awaiting": "clarification"},
	}
}

// complete builds the final response after emission, persisting the
// checklist for tracking.
func (r *Runner) complete(ctx context.Context, state *memory.AgentState) Response {
	r.persistFinal(ctx, state)
	r.persistSession(ctx, state)

	msg := state.Working.FinalMessage
	if msg == "" {
		msg = "The checklist is ready."
	}
	meta := map[string]string{"phase": string(state.Workflow.Phase)}
	if cta := state.Working.CallToAction; cta != "" {
		meta["call_to_action"] = cta
	}
	return Response{
		Message:  msg,
		Sections: finalSections(state),
		State:    state,
		Complete: true,
		Metadata: meta,
	}
}

// failure logs the error and hands back the last good state unchanged.
func (r *Runner) failure(ctx context.Context, state *memory.AgentState, err error) Response {
	logging.Error().
		Add(logging.ErrorField(err)).
		Msg("run aborted")
	r.persistSession(ctx, state)

	return Response{
		Message:  "I hit a problem while working on the checklist. The previous state is intact, please retry.",
		State:    state,
		Metadata: map[string]string{"error": err.Error()},
	}
}

func (r *Runner) persistFinal(ctx context.Context, state *memory.AgentState) {
	if r.checklists == nil || state == nil || state.Working.Final == nil {
		return
	}
	if err := r.checklists.SaveFinal(ctx, state.ThreadID, state.Working.Final); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("persist final checklist")
	}
	if err := r.checklists.SaveTracking(ctx, state.ThreadID, state.Working.Final); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("persist tracking checklist")
	}
}

func (r *Runner) persistTracking(ctx context.Context, state *memory.AgentState) {
	if r.checklists != nil && state != nil && state.Working.Final != nil {
		if err := r.checklists.SaveTracking(ctx, state.ThreadID, state.Working.Final); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("persist tracking checklist")
		}
	}
	r.persistSession(ctx, state)
}

func (r *Runner) persistSession(ctx context.Context, state *memory.AgentState) {
	if r.sessions == nil || state == nil {
		return
	}
	if err := r.sessions.Save(ctx, state); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("persist session")
	}
}

func finalSections(state *memory.AgentState) []checklist.Section {
	if state == nil || state.Working.Final == nil {
		return nil
	}
	return checklist.CloneSections(state.Working.Final.Sections)
}
