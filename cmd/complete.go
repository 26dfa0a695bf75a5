package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/pkg/logger"
)

var (
	completeBuffer   string
	completeCaret    int
	completeBackward bool
	completeTimes    int
	completeList     bool
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Run completion on a buffer without the console",
	Long: `Complete applies Tab (or Shift+Tab with --backward) to --buffer with the
caret at --caret, a byte offset (the end by default), and prints the buffer
after each step. --list prints the context and the candidate list instead.`,
	Example: "  tabc complete --buffer 'foo.T' --times 3\n  tabc complete --buffer 'foo.SetBehen(' --list",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if completeTimes < 1 {
			return fmt.Errorf("--times must be at least 1")
		}
		sess, err := newSession(effective, *logger.FromContext(rootCtx))
		if err != nil {
			return err
		}
		mode, _ := completion.ParseMode(effective.Console.Mode)
		eng := completion.NewEngine(sess.cat, completion.WithMode(mode), completion.WithLogger(*logger.FromContext(rootCtx)))

		caret := completeCaret
		if caret < 0 || caret > len(completeBuffer) {
			caret = len(completeBuffer)
		}
		out := cmd.OutOrStdout()

		if completeList {
			a, _ := eng.Analyze(completeBuffer, caret)
			fmt.Fprintf(out, "context: %s\n", a.Context.Kind)
			fmt.Fprintf(out, "token: %q\n", a.Context.Token)
			if a.Bias != "" {
				fmt.Fprintf(out, "bias: %s\n", a.Bias)
			}
			if a.Param != nil {
				fmt.Fprintf(out, "argument: %d of %d\n", a.Param.Index+1, a.Param.Count)
			}
			for _, c := range a.Candidates {
				fmt.Fprintln(out, c)
			}
			return nil
		}

		buf := completion.NewTextBuffer(completeBuffer, caret)
		steps := 0
		for ; steps < completeTimes; steps++ {
			if !eng.Complete(buf, !completeBackward) {
				break
			}
			fmt.Fprintln(out, buf.Value())
		}
		if steps == 0 {
			fmt.Fprintln(out, completeBuffer)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits
	f := completeCmd.Flags()
	f.StringVar(&completeBuffer, "buffer", "", "text to complete")
	f.IntVar(&completeCaret, "caret", -1, "caret byte offset (default end of buffer)")
	f.BoolVar(&completeBackward, "backward", false, "cycle backward like Shift+Tab")
	f.IntVarP(&completeTimes, "times", "n", 1, "number of completion steps")
	f.BoolVar(&completeList, "list", false, "print the context and candidates instead of completing")
	_ = completeCmd.MarkFlagRequired("buffer")
}
