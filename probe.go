package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"readyprobe/client"
	"readyprobe/types"
	"readyprobe/utils"
)

// exitError carries a process exit code out of a command
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type probeOptions struct {
	url     string
	timeout time.Duration
	quiet   bool
}

func newProbeCmd() *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:       "probe [ready|live|health]",
		Short:     "Query a running server and exit 0 when it reports UP",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"ready", "live", "health"},
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := "ready"
			if len(args) == 1 {
				endpoint = args[0]
			}
			return runProbe(cmd.Context(), cmd.OutOrStdout(), endpoint, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "http://127.0.0.1:9080", "base URL of the server")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 3*time.Second, "request timeout")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the report")
	return cmd
}

func runProbe(ctx context.Context, out io.Writer, endpoint string, opts *probeOptions) error {
	c := client.New(opts.url, opts.timeout)

	var (
		report *types.HealthResponse
		err    error
	)
	switch endpoint {
	case "ready":
		report, err = c.Ready(ctx)
	case "live":
		report, err = c.Live(ctx)
	case "health":
		report, err = c.Health(ctx)
	default:
		return fmt.Errorf("unknown endpoint %q", endpoint)
	}
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprint(out, utils.MarshalIndentToString(report))
	}
	if !report.IsUp() {
		return &exitError{code: 1}
	}
	return nil
}
