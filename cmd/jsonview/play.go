package main

import (
	"context"
	"errors"
	"os"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/internal/presentation/tui"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <question>",
	Short: "Play a question interactively",
	Long: `Loads a question document and reads commands (invoke, call, dispatch, state,
scopes, reset, quit) from stdin. With --session the scope state is restored from
and saved to the configured store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		sessionID, _ := cmd.Flags().GetString("session")
		return runPlay(cmd.Context(), args[0], headless, sessionID)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
	playCmd.Flags().String("session", "", "Session ID to restore and save")
}

func runPlay(ctx context.Context, path string, headless bool, sessionID string) error {
	opts, err := playerOptions(cfg, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	p := jsonview.New(opts...)
	defer p.Close()
	if err := p.LoadFile(ctx, path); err != nil {
		return err
	}

	if sessionID != "" {
		mgr, closeStore, err := sessionManager(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		sess, err := mgr.Load(ctx, sessionID)
		switch {
		case err == nil:
			if err := p.Restore(sess); err != nil {
				return err
			}
		case !errors.Is(err, domain.ErrSessionNotFound):
			return err
		}
		defer func() {
			snap, err := p.Snapshot(sessionID)
			if err == nil {
				err = mgr.Save(context.WithoutCancel(ctx), snap)
			}
			if err != nil {
				logger.Error("failed to save session", "session", sessionID, "err", err)
			}
		}()
	}

	if !headless && isTerminal(os.Stdout) {
		tui.PrintBanner(os.Stdout)
	}

	runner := jsonview.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	runner.Headless = headless
	return runner.Run(ctx, p)
}
