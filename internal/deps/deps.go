// Package deps checks the external tools serdata shells out to.
//
// The only configured external command is the packed-file decoder; every
// other source format is read in-process. Preflight surfaces these checks
// so a missing decoder is caught before a long ingest session instead of
// midway through a packed build.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"serdata/internal/config"
)

// Requirement defines one external command an ingest path relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// FromConfig derives the requirement list from the configuration. An empty
// decoder setting yields no requirements; packed sources then fail at read
// time with a configuration error.
func FromConfig(cfg *config.Config) []Requirement {
	if cfg == nil || len(cfg.Ingest.Decoder) == 0 {
		return nil
	}
	return []Requirement{{
		Name:        "Packed decoder",
		Command:     cfg.Ingest.Decoder[0],
		Description: "Decodes packed attribute files during ingest",
	}}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
	}
	if status.Command == "" {
		status.Detail = "no command configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("%q not found on PATH", status.Command)
		return status
	}
	status.Available = true
	return status
}
