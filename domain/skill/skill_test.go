package skill

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

func TestRegistryCoversEverySkill(t *testing.T) {
	t.Parallel()

	for _, id := range workflow.AllSkills() {
		def, err := Get(id)
		if err != nil {
			t.Errorf("Get(%s) error: %v", id, err)
			continue
		}
		if def.Template == "" {
			t.Errorf("skill %s has no template", id)
		}
		if def.Inputs == nil || def.Decode == nil {
			t.Errorf("skill %s is missing inputs or decode", id)
		}
	}

	if _, err := Get(workflow.SkillID("made_up")); err == nil {
		t.Error("Get(made_up) should fail")
	}
	if got := len(All()); got != len(workflow.AllSkills()) {
		t.Errorf("All() has %d entries, want %d", got, len(workflow.AllSkills()))
	}
}

func TestInputsIncludePersona(t *testing.T) {
	t.Parallel()

	state := memory.New("t1")
	state.Working.TaskInput = "plan a migration"

	for _, id := range workflow.AllSkills() {
		def, err := Get(id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		in := def.Inputs(state)
		if in["persona"] == "" {
			t.Errorf("skill %s inputs missing persona", id)
		}
	}
}

func TestDecodeValidOutputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   workflow.SkillID
		raw  string
	}{
		{
			"task parsing",
			workflow.SkillParseTask,
			`{"narration":"ok","goal":"migrate the database","constraints":[],"audience":["platform team"],"success_criteria":["zero downtime"]}`,
		},
		{
			"research decision positive",
			workflow.SkillDecideResearch,
			`{"narration":"ok","needs_research":true,"justification":"niche domain","research_questions":["current best practice?"]}`,
		},
		{
			"self judge",
			workflow.SkillSelfJudge,
			`{"narration":"ok","score":0.85,"threshold_met":true,"strengths":["thorough"],"gaps":[]}`,
		},
		{
			"gap analysis",
			workflow.SkillGapAnalysis,
			`{"narration":"ok","route":"needs_depth","reason":"items too shallow","next_focus":["rollback"]}`,
		},
		{
			"sections",
			workflow.SkillDraftChecklist,
			`{"narration":"ok","sections":[{"name":"Prep","objective":"ready","items":[{"identifier":"1.1","title":"freeze","description":"stop merges"}]}],"notes":[]}`,
		},
		{
			"emit",
			workflow.SkillEmitChecklist,
			`{"narration":"ok","final_message":"here is your checklist","call_to_action":"report progress"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, err := Get(tt.id)
			if err != nil {
				t.Fatalf("Get(%s): %v", tt.id, err)
			}
			out, err := def.Decode(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out == nil {
				t.Fatal("Decode returned nil output")
			}
		})
	}
}

func TestDecodeRejectsInvalidOutputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   workflow.SkillID
		raw  string
	}{
		{"malformed json", workflow.SkillParseTask, `{"goal":`},
		{"missing goal", workflow.SkillParseTask, `{"narration":"ok","goal":""}`},
		{"score out of range", workflow.SkillSelfJudge, `{"narration":"ok","score":1.4}`},
		{"bad gap route", workflow.SkillGapAnalysis, `{"narration":"ok","route":"sideways","reason":"?"}`},
		{"too many questions", workflow.SkillScopeAndAssume, `{"narration":"ok","clarifying_questions":["a","b","c","d"]}`},
		{"empty sections", workflow.SkillDraftChecklist, `{"narration":"ok","sections":[]}`},
		{"research without questions", workflow.SkillDecideResearch, `{"narration":"ok","needs_research":true,"justification":"x","research_questions":[]}`},
		{"empty final message", workflow.SkillEmitChecklist, `{"narration":"ok","final_message":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, err := Get(tt.id)
			if err != nil {
				t.Fatalf("Get(%s): %v", tt.id, err)
			}
			if _, err := def.Decode(json.RawMessage(tt.raw)); err == nil {
				t.Error("Decode should have failed")
			}
		})
	}
}
