package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command: %v", err)
	}
	if !strings.Contains(stdout.String(), "checklist version") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRootListsCommands(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("help: %v", err)
	}
	out := stdout.String()
	for _, cmd := range []string{"run", "show", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing %s command: %q", cmd, out)
		}
	}
}

func TestShowUnknownThreadFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "storage_dir: " + filepath.Join(dir, "store") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)

	err := app.ExecuteWithArgs(context.Background(), []string{"show", "no-such-thread", "--config", cfgPath})
	if err == nil {
		t.Error("show for a missing thread should fail")
	}
}

func TestPrintSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printSections(&buf, []checklist.Section{
		{
			Name:      "Prep",
			Objective: "ready",
			Items: []checklist.Item{
				{Identifier: "1.1", Title: "freeze main", Description: "stop merges", Done: true},
				{Identifier: "1.2", Title: "notify team", SubSteps: []string{"post announcement"}},
			},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"## Prep",
		"ready",
		"[x] 1.1 freeze main",
		"stop merges",
		"[ ] 1.2 notify team",
		"- post announcement",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
