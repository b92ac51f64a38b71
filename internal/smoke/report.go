package smoke

import "fmt"

// Status is the outcome of one check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result records one check.
type Result struct {
	Name     string
	Status   Status
	Detail   string
	Failures []string
}

// Report collects every check of a run.
type Report struct {
	Label  string
	Checks []Result
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Failures flattens every violation message, prefixed with its check name.
func (r Report) Failures() []string {
	var out []string
	for _, c := range r.Checks {
		for _, f := range c.Failures {
			out = append(out, fmt.Sprintf("%s: %s", c.Name, f))
		}
	}
	return out
}

// Counts returns the number of passed, failed and skipped checks.
func (r Report) Counts() (passed, failed, skipped int) {
	for _, c := range r.Checks {
		switch c.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusSkip:
			skipped++
		}
	}
	return passed, failed, skipped
}

type checker struct {
	name     string
	failures []string
	detail   string
	skip     string
}

func (c *checker) failf(format string, args ...any) {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
}

func (c *checker) result() Result {
	switch {
	case len(c.failures) > 0:
		return Result{Name: c.name, Status: StatusFail, Detail: c.failures[0], Failures: c.failures}
	case c.skip != "":
		return Result{Name: c.name, Status: StatusSkip, Detail: c.skip}
	default:
		return Result{Name: c.name, Status: StatusPass, Detail: c.detail}
	}
}
