package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kompoln/bind9-ctl/internal/application/orchestrator"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/valueobject"
)

const (
	colorSuccess   = "#10B981"
	colorWarning   = "#F59E0B"
	colorError     = "#EF4444"
	colorSecondary = "#6B7280"
	colorPrimary   = "#7C3AED"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	changeAddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	changeUpdateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorWarning))

	changeRemoveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorError))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSecondary))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Bold(true)
)

func renderPlan(result *orchestrator.Result) {
	plan := result.Plan

	fmt.Println(titleStyle.Render(fmt.Sprintf("Plan for %s (live serial %d):", plan.Zone(), result.LiveSerial)))

	if !plan.HasChanges() {
		fmt.Println(mutedStyle.Render("No changes. Live zone matches declared state."))
		return
	}

	for _, c := range plan.Changes() {
		fmt.Println(renderChange(result, c))
	}

	if excluded := plan.Excluded(); len(excluded) > 0 {
		fmt.Println()
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%d live record(s) excluded from reconciliation:", len(excluded))))
		for _, r := range excluded {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("    %-20s %-6s %s", r.Owner(result.Zone.Origin), r.Type, r.Data.String())))
		}
	}

	fmt.Println()
	fmt.Printf("Plan: %d to add, %d to update, %d to remove.\n",
		len(plan.Adds()), len(plan.TTLUpdates()), len(plan.Removes()))
}

func renderChange(result *orchestrator.Result, c *valueobject.Change) string {
	r := c.Record()
	owner := r.Owner(result.Zone.Origin)

	var prefix string
	var style lipgloss.Style
	switch c.Op() {
	case valueobject.OperationAdd:
		prefix = "+"
		style = changeAddStyle
	case valueobject.OperationUpdateTTL:
		prefix = "~"
		style = changeUpdateStyle
	case valueobject.OperationRemove:
		prefix = "-"
		style = changeRemoveStyle
	}

	line := fmt.Sprintf("%s %-6s %-20s -> %-30s (ttl: %d)", prefix, r.Type, owner, r.Data.String(), r.TTL)
	if c.Op() == valueobject.OperationUpdateTTL {
		line = fmt.Sprintf("%s %-6s %-20s -> %-30s (ttl: %d -> %d)", prefix, r.Type, owner, r.Data.String(), c.PrevTTL(), r.TTL)
	}
	return style.Render(line)
}

func renderApply(result *orchestrator.Result) {
	apply := result.Apply
	if apply == nil {
		return
	}

	fmt.Println()
	switch {
	case apply.FullyApplied() && (apply.Strategy != entity.StrategyZoneFile || apply.ReloadConfirmed):
		fmt.Println(changeAddStyle.Render(fmt.Sprintf("Apply complete: %d change(s) applied via %s strategy.", apply.Applied(), apply.Strategy)))
	case apply.Partial():
		fmt.Println(errorStyle.Render(fmt.Sprintf("Apply partial: %d applied, %d failed, %d not attempted.",
			apply.Applied(), apply.Failed(), apply.NotAttempted())))
	case apply.Applied() == 0:
		fmt.Println(errorStyle.Render("Apply failed: no changes landed."))
	default:
		fmt.Println(changeUpdateStyle.Render(fmt.Sprintf("Applied %d change(s), but reload was not confirmed.", apply.Applied())))
	}

	for _, o := range apply.Outcomes {
		if o.Status == valueobject.StatusApplied {
			continue
		}
		line := fmt.Sprintf("  %s: %s", o.Status, o.Change)
		if o.Err != nil {
			line += fmt.Sprintf(" (%v)", o.Err)
		}
		fmt.Println(mutedStyle.Render(line))
	}

	if apply.ZoneFilePath != "" {
		fmt.Printf("Zone file: %s (serial %d)\n", apply.ZoneFilePath, apply.Serial)
		if !apply.ReloadConfirmed {
			fmt.Println(changeUpdateStyle.Render("Reload not confirmed. Run rndc reload manually and verify."))
		}
	}
}

// planPayload is the machine-readable plan form written by --json.
type planPayload struct {
	Zone       string              `json:"zone"`
	LiveSerial uint32              `json:"live_serial"`
	Changes    []planChangeEntry   `json:"changes"`
	Excluded   []planExcludedEntry `json:"excluded,omitempty"`
}

type planChangeEntry struct {
	Op      string `json:"op"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	TTL     int    `json:"ttl"`
	PrevTTL int    `json:"prev_ttl,omitempty"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
}

type planExcludedEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func writePlanJSON(result *orchestrator.Result, path string) error {
	payload := planPayload{
		Zone:       result.Plan.Zone(),
		LiveSerial: result.LiveSerial,
		Changes:    []planChangeEntry{},
	}
	for _, c := range result.Plan.Changes() {
		r := c.Record()
		entry := planChangeEntry{
			Op:     c.Op().String(),
			Name:   r.Name,
			Type:   string(r.Type),
			TTL:    r.TTL,
			Value:  r.Data.String(),
			Reason: string(c.Reason()),
		}
		if c.Op() == valueobject.OperationUpdateTTL {
			entry.PrevTTL = c.PrevTTL()
		}
		payload.Changes = append(payload.Changes, entry)
	}
	for _, r := range result.Plan.Excluded() {
		payload.Excluded = append(payload.Excluded, planExcludedEntry{
			Name:  r.Name,
			Type:  string(r.Type),
			Value: r.Data.String(),
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+strings.TrimSpace(err.Error()))
	os.Exit(1)
}
