package main

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/wharf-ops/wharf/internal/domain/catalog"
	"github.com/wharf-ops/wharf/internal/domain/planner"
)

// cliReporter is the default coordinator.Reporter: it asks for confirmation
// on a terminal (unless --yes was passed) and prints each log line as
// execution progresses, prefixed with the colored plan id and elapsed time.
type cliReporter struct {
	autoConfirm bool
	started     time.Time
}

func newCLIReporter(autoConfirm bool) *cliReporter {
	return &cliReporter{autoConfirm: autoConfirm, started: time.Now()}
}

func (r *cliReporter) Plans(plans []catalog.Plan) bool {
	for _, p := range plans {
		for _, line := range planner.Explain(p) {
			fmt.Println(line)
		}
	}

	if r.autoConfirm {
		return true
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("I will execute %d plans, continue?", len(plans)),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false
	}
	return confirmed
}

func (r *cliReporter) Line(planID, line string) {
	elapsed := humanize.CustomRelTime(r.started, time.Now(), "", "", []humanize.RelTimeMagnitude{
		{D: time.Minute, Format: "%d seconds", DivBy: time.Second},
		{D: time.Hour, Format: "%d minutes", DivBy: time.Minute},
		{D: humanize.Day, Format: "%d hours", DivBy: time.Hour},
	})
	fmt.Printf("%s %s %s\n", color.CyanString("[%s]", planID), color.HiBlackString("+%s", elapsed), line)
}
