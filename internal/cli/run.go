package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/extensibility"
	"github.com/comalice/activestate/internal/production"
)

type runOptions struct {
	json   bool
	resume bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay the navigation script and print activation changes",
		Long: `Replays the configured script against the router. Every time a link or group
flips, a line is printed: "+" when it becomes active, "-" when it stops being active.
A summary of every link follows the replay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print changes as JSON lines")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "restore the last snapshot before replaying")
	return cmd
}

func runScript(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	s, err := openSession(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	interval, err := s.cfg.IntervalDuration()
	if err != nil {
		return err
	}

	observer := extensibility.NewLoggingObserver(s.logger)
	defer observer.WatchRouter(s.router)()

	out := cmd.OutOrStdout()
	changes := make(chan production.ActivationChange, 64)
	pub := production.NewActivationPublisher(changes, production.WithBlockingSend())
	names := make([]string, 0, len(s.bindings.Matchers))
	for name := range s.bindings.Matchers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pub.WatchMatcher(name, s.bindings.Matchers[name])
		observer.WatchMatcher(name, s.bindings.Matchers[name])
	}
	s.bindings.Walk(func(g *activestate.Group) {
		pub.WatchGroup(g)
		observer.WatchGroup(g)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for c := range changes {
			printChange(out, c, opts.json)
		}
	}()

	ctx := cmd.Context()
	if opts.resume {
		err = s.resume(ctx)
	} else {
		err = s.router.Start(ctx)
	}
	var committed int
	if err == nil {
		committed, err = s.replay(ctx, interval)
	}
	_ = pub.Close()
	<-done
	if err != nil {
		return err
	}

	if !opts.json {
		fmt.Fprintf(out, "\n%d/%d navigations committed, current state %q\n", committed, len(s.cfg.Script), s.router.Current().State)
		for _, name := range names {
			mark := " "
			if s.bindings.Matchers[name].Active() {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, name)
		}
	}
	return nil
}

func printChange(out io.Writer, c production.ActivationChange, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(out).Encode(c)
		return
	}
	sign := "-"
	if c.Active {
		sign = "+"
	}
	if len(c.Classes) > 0 {
		fmt.Fprintf(out, "%s %s [%s]\n", sign, c.Name, strings.Join(c.Classes, " "))
		return
	}
	fmt.Fprintf(out, "%s %s\n", sign, c.Name)
}
