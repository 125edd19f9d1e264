package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/color"
)

// Render writes a human readable summary of r to w.
func Render(w io.Writer, r *Report, c *color.Color) {
	fmt.Fprintf(w, "Disk statistics check for %s (%s)\n", r.Device, r.Platform)
	for _, check := range r.Checks {
		var tag string
		switch check.Status {
		case CheckOK:
			tag = c.Green("  OK")
		case CheckFail:
			tag = c.Red("FAIL")
		default:
			tag = c.Yellow("SKIP")
		}
		line := fmt.Sprintf("[%s] %s", tag, check.Name)
		if check.Detail != "" {
			line += ": " + strings.Replace(check.Detail, "\n", "\n       ", -1)
		}
		fmt.Fprintln(w, line)
	}

	switch r.Status {
	case StatusPass:
		fmt.Fprintf(w, "%s: Finished testing stats for %s\n", c.Green("PASS"), r.Device)
	case StatusSkip:
		fmt.Fprintf(w, "%s: %s was not tested\n", c.Yellow("SKIP"), r.Device)
	default:
		failures := r.Failures()
		fmt.Fprintf(w, "%s: %d of %d checks failed for %s\n", c.Red("FAIL"), len(failures), len(r.Checks), r.Device)
	}
}
