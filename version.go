// Package checklistgo provides the version information for checklist-go.
package checklistgo

// Version is the current version of checklist-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
