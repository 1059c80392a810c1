package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary bd2mods can use.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// chromeCandidates are tried in order when no browser path is configured.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkBinary(req))
	}
	return results
}

func checkBinary(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// ResolveChrome returns the browser used for rendered scraping. A configured
// path wins; otherwise the first well-known browser on PATH is used. The
// returned status is unavailable when nothing can be found.
func ResolveChrome(configured string) Status {
	req := Requirement{
		Name:        "Chrome",
		Description: "Renders catalog pages before extraction",
		Optional:    true,
	}
	if configured = strings.TrimSpace(configured); configured != "" {
		req.Command = configured
		return checkBinary(req)
	}
	for _, candidate := range chromeCandidates {
		req.Command = candidate
		if status := checkBinary(req); status.Available {
			return status
		}
	}
	req.Command = ""
	status := checkBinary(req)
	status.Detail = "no chrome or chromium binary on PATH"
	return status
}
