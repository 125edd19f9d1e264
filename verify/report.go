package verify

import (
	"time"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Status is the outcome of a whole run.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	StatusSkip
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	}
	return "UNKNOWN"
}

// CheckStatus is the outcome of a single step.
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	CheckFail
	CheckSkip
)

func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckFail:
		return "FAIL"
	case CheckSkip:
		return "SKIP"
	}
	return "UNKNOWN"
}

// CheckResult holds the outcome of one step of a run.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Kind   string
	Detail string
	Err    error
}

// Report accumulates the results of a run.
type Report struct {
	Device   string
	Platform string
	Started  time.Time
	Duration time.Duration
	Status   Status
	Checks   []CheckResult
}

func newReport(device, platform string) *Report {
	return &Report{
		Device:   device,
		Platform: platform,
		Started:  time.Now(),
		Status:   StatusPass,
	}
}

func (r *Report) record(name string, err error) CheckResult {
	result := CheckResult{Name: name, Status: CheckOK, Err: err}
	switch {
	case err == nil:
	case IsSkipped(err):
		result.Status = CheckSkip
		result.Detail = err.Error()
	default:
		result.Status = CheckFail
		result.Detail = err.Error()
		result.Kind = CommandFailed.String()
		var checkErr *CheckError
		if errors.As(err, &checkErr) {
			result.Kind = checkErr.Kind.String()
		}
		r.Status = StatusFail
	}
	r.Checks = append(r.Checks, result)
	return result
}

func (r *Report) skipAll(reason string) {
	r.Status = StatusSkip
	r.Checks = append(r.Checks, CheckResult{Name: "nvdimm", Status: CheckSkip, Detail: reason})
	r.finish()
}

func (r *Report) finish() {
	r.Duration = time.Since(r.Started)
}

// Failures returns the message of every failed check, in order.
func (r *Report) Failures() []string {
	var failures []string
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			failures = append(failures, c.Detail)
		}
	}
	return failures
}

// Check returns the result recorded under name.
func (r *Report) Check(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// ExitCode is 1 if any check failed and 0 otherwise.
func (r *Report) ExitCode() int {
	if r.Status == StatusFail {
		return 1
	}
	return 0
}

// Struct converts the report to a protobuf Struct.
func (r *Report) Struct() (*structpb.Struct, error) {
	checks := make([]interface{}, 0, len(r.Checks))
	for _, c := range r.Checks {
		check := map[string]interface{}{
			"name":   c.Name,
			"status": c.Status.String(),
		}
		if c.Kind != "" {
			check["kind"] = c.Kind
		}
		if c.Detail != "" {
			check["detail"] = c.Detail
		}
		checks = append(checks, check)
	}
	failures := make([]interface{}, 0)
	for _, f := range r.Failures() {
		failures = append(failures, f)
	}
	return structpb.NewStruct(map[string]interface{}{
		"device":           r.Device,
		"platform":         r.Platform,
		"started":          r.Started.UTC().Format(time.RFC3339),
		"duration_seconds": r.Duration.Seconds(),
		"status":           r.Status.String(),
		"exit_code":        r.ExitCode(),
		"checks":           checks,
		"failures":         failures,
	})
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, errors.Wrap(err, "building report")
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
