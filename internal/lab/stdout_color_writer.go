// ColorStdoutWriter prints human-friendly, styled round results to STDOUT.
package lab

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"survivallab/internal/config"
)

var (
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleAction   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleGood     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleBad      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleHeader   = lipgloss.NewStyle().Bold(true).Underline(true)
	agentPalette  = []string{"2", "3", "4", "5", "6", "13"}
	styleBankrupt = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
)

// ColorStdoutWriter prints round records using lipgloss styling.
type ColorStdoutWriter struct {
	cfg         *config.Config
	out         io.Writer
	once        sync.Once
	agentColors map[string]lipgloss.Style
	colorIdx    int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:         cfg,
		out:         os.Stdout,
		agentColors: make(map[string]lipgloss.Style),
	}
}

func (w *ColorStdoutWriter) agentStyle(name string) lipgloss.Style {
	if s, ok := w.agentColors[name]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(agentPalette[w.colorIdx%len(agentPalette)]))
	w.agentColors[name] = s
	w.colorIdx++
	return s
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, styleHeader.Render("Lab Configuration"))
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Initial Capital:\t%.2f\n", w.cfg.InitialCapital)
	fmt.Fprintf(tw, "Hourly Burn Rate:\t%.3f\n", w.cfg.HourlyBurnRate)
	fmt.Fprintf(tw, "Impact Factor:\t%.2f\n", w.cfg.ImpactFactor)
	fmt.Fprintf(tw, "Skill Upgrade Cost:\t%.2f\n", w.cfg.Investment.SkillUpgradeCost)
	fmt.Fprintf(tw, "Shift Hours:\t%d\n", w.cfg.Simulation.ShiftHours)
	fmt.Fprintf(tw, "Patients/Hour:\t%d\n", w.cfg.Simulation.PatientsPerHour)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteRound prints one round record on a single styled line.
func (w *ColorStdoutWriter) WriteRound(r RoundRecord) error {
	w.once.Do(w.printOverview)

	balStyle := styleGood
	switch {
	case r.Metrics.Bankrupt:
		balStyle = styleBad
	case w.cfg != nil && r.Metrics.Balance < w.cfg.InitialCapital/4:
		balStyle = styleWarn
	}

	fmt.Fprintf(w.out, "%s %s %s ",
		styleDim.Render(fmt.Sprintf("[round %02d]", r.Round)),
		w.agentStyle(r.AgentName).Render(r.AgentName),
		styleAction.Render(string(r.Decision)))
	fmt.Fprintf(w.out, "pay=%.3f %s wait=%.2fh los=%.2fh treated=%d err=%.3f rep=%.2f",
		r.Payment,
		balStyle.Render(fmt.Sprintf("bal=%.3f", r.Metrics.Balance)),
		r.KPIs.DoorToDoctor, r.KPIs.LengthOfStay, r.KPIs.Throughput,
		r.KPIs.ErrorRate, r.Metrics.ReputationScore)
	if len(r.KPIs.EventLog) > 0 {
		fmt.Fprintf(w.out, " %s", styleWarn.Render("events="+strings.Join(r.KPIs.EventLog, "; ")))
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteRounds prints multiple round records.
func (w *ColorStdoutWriter) WriteRounds(rows []RoundRecord) error {
	for _, r := range rows {
		_ = w.WriteRound(r)
	}
	return nil
}

// WriteLeaderboard prints the final standings, solvent agents first.
func (w *ColorStdoutWriter) WriteLeaderboard(entries []LeaderboardEntry) error {
	w.once.Do(w.printOverview)

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, styleHeader.Render("Leaderboard"))
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tAgent\tBalance\tReputation\tSurvival (h)\tStatus\n")
	for i, e := range entries {
		name := w.agentStyle(e.AgentName).Render(e.AgentName)
		status := styleGood.Render("solvent")
		if e.Bankrupt {
			name = styleBankrupt.Render(e.AgentName)
			status = styleBad.Render("bankrupt")
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.2f\t%.1f\t%s\n",
			i+1, name, e.Balance, e.ReputationScore, e.SurvivalTime, status)
	}
	tw.Flush()
	return nil
}
