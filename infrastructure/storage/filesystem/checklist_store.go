// Package filesystem provides filesystem-based checklist persistence.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
)

// ErrNotFound indicates no stored checklist exists for the thread.
var ErrNotFound = errors.New("checklist not found")

// ChecklistStore persists finalized checklists and their tracking copies
// as JSON files, one directory per thread.
type ChecklistStore struct {
	basePath string
}

// NewChecklistStore creates the store, ensuring the base path exists
// with restrictive permissions.
func NewChecklistStore(basePath string) (*ChecklistStore, error) {
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("create checklist directory: %w", err)
	}
	return &ChecklistStore{basePath: basePath}, nil
}

// SaveFinal writes the emitted checklist for a thread.
func (s *ChecklistStore) SaveFinal(ctx context.Context, threadID string, pkg *checklist.Package) error {
	return s.save(ctx, threadID, "final.json", pkg)
}

// SaveTracking writes the tracking copy with completion flags.
func (s *ChecklistStore) SaveTracking(ctx context.Context, threadID string, pkg *checklist.Package) error {
	return s.save(ctx, threadID, "tracking.json", pkg)
}

// LoadFinal reads the emitted checklist for a thread.
func (s *ChecklistStore) LoadFinal(ctx context.Context, threadID string) (*checklist.Package, error) {
	return s.load(ctx, threadID, "final.json")
}

// LoadTracking reads the tracking copy for a thread.
func (s *ChecklistStore) LoadTracking(ctx context.Context, threadID string) (*checklist.Package, error) {
	return s.load(ctx, threadID, "tracking.json")
}

func (s *ChecklistStore) save(ctx context.Context, threadID, name string, pkg *checklist.Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if threadID == "" {
		return fmt.Errorf("checklist store: empty thread id")
	}
	if pkg == nil {
		return fmt.Errorf("checklist store: nil package")
	}

	dir := filepath.Join(s.basePath, threadID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create thread directory: %w", err)
	}

	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}

	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		os.Remove(tmp) // #nosec G104 -- best-effort cleanup in error path
		return fmt.Errorf("rename checklist: %w", err)
	}
	return nil
}

func (s *ChecklistStore) load(ctx context.Context, threadID, name string) (*checklist.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, threadID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read checklist: %w", err)
	}

	var pkg checklist.Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decode checklist: %w", err)
	}
	return &pkg, nil
}
