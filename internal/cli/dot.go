package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/activestate/internal/production"
)

func newDotCmd(root *rootOptions) *cobra.Command {
	var noReplay bool
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Print the state tree as Graphviz DOT",
		Long: `Prints the configured state tree in Graphviz DOT format. Unless --no-replay is
given, the script is replayed first and the path to the resulting state is highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			if !noReplay {
				if err := s.router.Start(cmd.Context()); err != nil {
					return err
				}
				if _, err := s.replay(cmd.Context(), 0); err != nil {
					return err
				}
			}

			v := &production.DefaultVisualizer{}
			fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(s.router.Config(), s.router.Current().State))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noReplay, "no-replay", false, "render the tree without replaying the script")
	return cmd
}
