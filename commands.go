package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/milk9111/netguardian/history"
	"github.com/milk9111/netguardian/levels"
	"github.com/milk9111/netguardian/lifecycle"
	"github.com/milk9111/netguardian/prefabs"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#64c8ff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc864"))
	winStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3cffb4"))
	loseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6464"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4080c0")).Padding(0, 1)
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the level layouts and their enemy rosters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(flagDebug)
			game, err := prefabs.LoadGameSpec()
			if err != nil {
				return fmt.Errorf("load game spec: %w", err)
			}

			var rows []string
			src := levels.FSSource{}
			for i := 0; i < max(game.LevelCount, 1); i++ {
				def, err := src.FetchLevelLayout(i)
				if err != nil {
					logger.Debug("layout unavailable", "level", i, "err", err)
					rows = append(rows, fmt.Sprintf("%s %s",
						labelStyle.Render(fmt.Sprintf("#%d", i)),
						warnStyle.Render("unavailable, emergency layout will be used")))
					continue
				}
				roster := lifecycle.Roster(def, game.RosterCap(i))
				rows = append(rows, fmt.Sprintf("%s %-20s %s %dx%d  %s %d/%d  %s %s",
					labelStyle.Render(fmt.Sprintf("#%d", i)),
					def.Name,
					labelStyle.Render("size"), def.Width, def.Height,
					labelStyle.Render("enemies"), len(roster), len(def.SpawnersOf(levels.RoleEnemy)),
					labelStyle.Render("fragment"), game.FragmentTypeFor(i),
				))
			}
			fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(titleStyle.Render("Levels")+"\n"+strings.Join(rows, "\n")))
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent runs and the best level reached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(flagDebug)
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			runs, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			best, err := store.Best(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, labelStyle.Render("No runs recorded yet."))
				return nil
			}
			rows := []string{titleStyle.Render(fmt.Sprintf("Recent runs (best level %d)", best+1))}
			for _, r := range runs {
				result := loseStyle.Render("LOST")
				if r.Victory {
					result = winStyle.Render("WON ")
				}
				rows = append(rows, fmt.Sprintf("%s %s level %d  threats %d  fragments %d  skin %s",
					labelStyle.Render(r.EndedAt.Format("2006-01-02 15:04")),
					result, r.Level+1, r.Defeated, r.Fragments, r.Skin))
			}
			fmt.Fprintln(out, boxStyle.Render(strings.Join(rows, "\n")))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}
