package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/trivia"
)

const reportRecentRuns = 10

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics for a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		user, _ := cmd.Flags().GetString("user")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := loadProfile(cmd, st.ProfileRepo(), user)
		if err != nil {
			return err
		}
		report := buildReport(*sess, trivia.DefaultCatalog())

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(report)
		case "", "text":
			return printMarkdown(out, report.Markdown())
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}
	},
}

func init() {
	statsCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	statsCmd.Flags().StringP("user", "u", "", "Player name (default: the active player)")
}

type reportRun struct {
	Score    int    `json:"score" yaml:"score"`
	Total    int    `json:"total" yaml:"total"`
	Percent  int    `json:"percent" yaml:"percent"`
	Category string `json:"category" yaml:"category"`
	Mode     string `json:"mode" yaml:"mode"`
	When     string `json:"completedAt" yaml:"completed_at"`
}

type statsReport struct {
	Player         string                    `json:"player" yaml:"player"`
	Stats          state.Stats               `json:"stats" yaml:"stats"`
	Achievements   []state.AchievementStatus `json:"achievements" yaml:"achievements"`
	Recommendation string                    `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Recent         []reportRun               `json:"recent" yaml:"recent"`

	recentWhen []string
}

func buildReport(s state.SessionState, catalog trivia.Catalog) statsReport {
	r := statsReport{
		Player:       s.Identity,
		Achievements: state.AchievementStatuses(s.Achievements),
		Recent:       []reportRun{},
	}
	if st := state.ComputeStats(s.History); st != nil {
		r.Stats = *st
	}
	if rec := state.Recommend(s.History); rec != nil {
		switch rec.Kind {
		case state.RecommendImprove:
			r.Recommendation = fmt.Sprintf("Could improve in %s (avg %d%%)", catalog.Name(&rec.Category), rec.Average)
		case state.RecommendExpert:
			r.Recommendation = "Expert status across every category played"
		}
	}

	recent := slices.Clone(s.History[max(len(s.History)-reportRecentRuns, 0):])
	slices.Reverse(recent)
	for _, run := range recent {
		r.Recent = append(r.Recent, reportRun{
			Score:    run.Score,
			Total:    run.Total,
			Percent:  run.Percent(),
			Category: catalog.Name(run.Category),
			Mode:     string(run.Mode),
			When:     run.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
		r.recentWhen = append(r.recentWhen, humanize.Time(run.CompletedAt))
	}
	return r
}

// Markdown renders the report for the terminal.
func (r statsReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Player)

	b.WriteString("| Games | Accuracy | Questions | Best Score |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d%% | %d | %d |\n\n", r.Stats.TotalGames, r.Stats.Accuracy, r.Stats.TotalQuestions, r.Stats.BestScore)

	if r.Recommendation != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Recommendation)
	}

	unlocked := 0
	for _, a := range r.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(&b, "## Achievements (%d/%d)\n\n", unlocked, len(r.Achievements))
	for _, a := range r.Achievements {
		mark := "🔒"
		if a.Unlocked {
			mark = a.Icon
		}
		fmt.Fprintf(&b, "- %s **%s**: %s\n", mark, a.Name, a.Description)
	}

	b.WriteString("\n## Recent History\n\n")
	if len(r.Recent) == 0 {
		b.WriteString("No games played yet.\n")
		return b.String()
	}
	b.WriteString("| Category | Score | Mode | When |\n|---|---|---|---|\n")
	for i, run := range r.Recent {
		fmt.Fprintf(&b, "| %s | %d/%d (%d%%) | %s | %s |\n",
			run.Category, run.Score, run.Total, run.Percent, run.Mode, r.recentWhen[i])
	}
	return b.String()
}

// printMarkdown renders md with glamour when out is a terminal and writes
// it verbatim otherwise.
func printMarkdown(out io.Writer, md string) error {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(out, md)
		return err
	}
	width := 80
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = min(w, 100)
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}
