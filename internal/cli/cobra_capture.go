package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethanhollins/cc-web-sub001/internal/cli/formatter"
)

// captureCobraOutput runs a command through the Cobra tree and returns
// what it printed. Handlers write through cmd.OutOrStdout, so nothing
// reaches the alternate screen directly.
func captureCobraOutput(app *App, args []string) string {
	var buf bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.ExecuteContext(context.Background()); err != nil {
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
		buf.WriteString(shellError(err))
		if strings.Contains(err.Error(), "unknown command") && len(args) > 0 {
			if s := suggestAlternatives(root, args[0]); s != "" {
				buf.WriteString("\n" + s)
			}
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

// suggestAlternatives lists commands sharing the first two letters of input.
func suggestAlternatives(root *cobra.Command, input string) string {
	if len(input) < 2 {
		return ""
	}
	prefix := strings.ToLower(input[:2])
	var b strings.Builder
	for _, c := range root.Commands() {
		if c.Hidden || !strings.HasPrefix(c.Name(), prefix) {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(formatter.Dim("Did you mean:"))
		}
		fmt.Fprintf(&b, "\n  %s  %s", formatter.StyleGreen.Render(c.Name()), formatter.Dim(c.Short))
	}
	return b.String()
}
