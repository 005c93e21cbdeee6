package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/store"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored players",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored players",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.ProfileRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(profiles) == 0 {
			fmt.Fprintln(out, "No players yet.")
			return nil
		}
		fmt.Fprintf(out, "   %-24s  %s\n", "Name", "Last played")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, p := range profiles {
			mark := " "
			if p.Active {
				mark = "*"
			}
			fmt.Fprintf(out, " %s %-24s  %s\n", mark, truncate(p.Name, 24), humanize.Time(p.UpdatedAt))
		}
		return nil
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a player and their history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(cmd, fmt.Sprintf("Delete player %q and all their history?", args[0])) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		found, err := st.ProfileRepo().Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if !found {
			return fmt.Errorf("player %q not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear a player's history and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.ProfileRepo()
		sess, err := loadProfile(cmd, repo, user)
		if err != nil {
			return err
		}
		if !yes && !confirm(cmd, fmt.Sprintf("Clear all history for %q?", sess.Identity)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		sess.History = []state.RunRecord{}
		sess.LastRun = nil
		sess.Achievements = []string{}
		if err := repo.Save(cmd.Context(), sess.Identity, *sess); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "History cleared for %s.\n", sess.Identity)
		return nil
	},
}

func init() {
	profilesDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().StringP("user", "u", "", "Player name (default: the active player)")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

// loadProfile returns the stored session for user, or for the active
// player when user is empty.
func loadProfile(cmd *cobra.Command, repo store.ProfileRepo, user string) (*state.SessionState, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if user == "" {
		active, err := repo.LoadActiveIdentity(ctx)
		if err != nil {
			return nil, fmt.Errorf("load active player: %w", err)
		}
		if active == "" {
			return nil, errors.New("no active player; pass --user")
		}
		user = active
	}
	sess, err := repo.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("player %q not found", user)
	}
	sess.Identity = user
	return sess, nil
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	return readYes(cmd.InOrStdin())
}

func readYes(in io.Reader) bool {
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
