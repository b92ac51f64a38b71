package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"sitekit/internal/services"
)

// Requirement defines an external binary sitekit relies on.
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

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Available reports whether command resolves on PATH.
func Available(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}

// ScriptCheckTimeout bounds a single syntax check.
const ScriptCheckTimeout = 30 * time.Second

// CheckScriptSyntax runs "<node> --check <path>" and returns the combined
// output when the script does not parse.
func CheckScriptSyntax(ctx context.Context, node, path string) error {
	ctx, cancel := context.WithTimeout(ctx, ScriptCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, node, "--check", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "node", "--check "+path, ScriptCheckTimeout.String(), err)
		}
		return services.Wrap(services.ErrExternalTool, "node", "--check "+path, strings.TrimSpace(string(output)), err)
	}
	return nil
}
