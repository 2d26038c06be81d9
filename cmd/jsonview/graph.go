package main

import (
	"fmt"
	"os"

	"github.com/aretw0/jsonview/internal/compiler"
	"github.com/aretw0/jsonview/internal/presentation/graph"
	"github.com/aretw0/jsonview/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var graphCmd = &cobra.Command{
	Use:   "graph <question>",
	Short: "Print the scope tree as a Mermaid flowchart",
	Long: `Prints where every widget handler resolves. With --session, scopes whose
state differs from the restore point are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := compiler.NewParser().ParseFile(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			mgr, closeStore, err := sessionManager(cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			sess, err := mgr.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load session %q: %w", id, err)
			}
			overlay = &graph.GraphOverlay{Touched: sess.Touched()}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(q, overlay))
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <question>",
	Short: "Describe a question as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := compiler.NewParser().ParseFile(args[0])
		if err != nil {
			return err
		}
		md := tui.Outline(q)

		raw, _ := cmd.Flags().GetBool("raw")
		if raw || !isTerminal(os.Stdout) {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		render, err := tui.NewRenderer(0)
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(describeCmd)
	graphCmd.Flags().String("session", "", "Highlight scopes changed in this session")
	graphCmd.Flags().String("store", "", "Session store (memory, file, redis)")
	describeCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
