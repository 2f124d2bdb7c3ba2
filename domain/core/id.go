package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// ReportID identifies one invocation of the report pipeline.
	ReportID ID
	// ExperimentName is the short name of one corpus of results (e.g. "mf").
	ExperimentName ID
)

func (id ReportID) String() string       { return ID(id).String() }
func (id ExperimentName) String() string { return ID(id).String() }

// NewReportID creates a time-ordered report identifier
func NewReportID() ReportID {
	return ReportID(NewID())
}

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("report ID cannot be empty")
	}
	return ReportID(s), nil
}

// ParseExperimentName parses a string into ExperimentName
func ParseExperimentName(s string) (ExperimentName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("experiment name cannot be empty")
	}
	return ExperimentName(s), nil
}
