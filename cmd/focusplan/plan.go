package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"focus-planner-backend/internal/scheduler"
)

// planFile is the YAML input of schedule and classify.
type planFile struct {
	Date     string                  `yaml:"date"`
	Settings scheduler.TimerSettings `yaml:"settings"`
	Tasks    []scheduler.Task        `yaml:"tasks"`
	Events   []scheduler.Event       `yaml:"events"`
}

func loadPlanFile(path string) (planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return planFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return planFile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	// tasks without an id are numbered by position
	for i := range pf.Tasks {
		if pf.Tasks[i].ID == 0 {
			pf.Tasks[i].ID = i + 1
		}
	}
	for i, ev := range pf.Events {
		if !ev.End.After(ev.Start) {
			return planFile{}, fmt.Errorf("%s: event %d ends before it starts", path, i+1)
		}
	}
	return pf, nil
}

func parseDay(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if raw == "" {
		now = now.In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.FgHiBlack)
	warnColor   = color.New(color.FgYellow)

	energyColors = map[scheduler.Level]*color.Color{
		scheduler.LevelHigh:   color.New(color.FgGreen, color.Bold),
		scheduler.LevelMedium: color.New(color.FgYellow),
		scheduler.LevelLow:    color.New(color.FgBlue),
	}
)

func energyTag(l scheduler.Level) string {
	tag := fmt.Sprintf("%-8s", "["+string(l)+"]")
	if c, ok := energyColors[l]; ok {
		return c.Sprint(tag)
	}
	return tag
}

func printPlan(w io.Writer, plan scheduler.DayPlan, tasks []scheduler.Task) {
	p := plan.Profile
	_, _ = headerColor.Fprintf(w, "Plan for %s  (%s, %02d:00-%02d:00)\n",
		plan.Date.Format(time.DateOnly), p.Chronotype, p.WorkdayStartHour, p.WorkdayEndHour)

	if len(plan.Assignments) == 0 {
		_, _ = mutedColor.Fprintln(w, "  nothing scheduled")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, a := range plan.Assignments {
		_, _ = fmt.Fprintf(tw, "  %s-%s\t%s\t%s\t%s, %d min\n",
			a.TimeBlock.StartTime.Format("15:04"),
			a.EndTime.Format("15:04"),
			energyTag(a.TimeBlock.EnergyLevel),
			a.Task.Title,
			a.Task.CognitiveLoadType,
			a.Task.EstimatedDurationMinutes,
		)
	}
	_ = tw.Flush()

	if len(plan.Unscheduled) == 0 {
		return
	}
	titles := make(map[int]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	_, _ = warnColor.Fprintln(w, "Did not fit:")
	for _, id := range plan.Unscheduled {
		_, _ = fmt.Fprintf(w, "  - %s\n", titles[id])
	}
}

func printClassification(w io.Writer, tasks []scheduler.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TASK\tCOMPLEXITY\tLOAD\tENERGY\tMINUTES")
	for _, t := range tasks {
		ct := scheduler.Classify(t)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			t.Title, ct.Complexity, ct.CognitiveLoadType, energyTag(ct.IdealEnergyLevel), ct.EstimatedDurationMinutes)
	}
	_ = tw.Flush()
}
