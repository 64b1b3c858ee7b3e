package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"gitlab.com/jobfeed.net/internal/adapter/logging"
	"gitlab.com/jobfeed.net/internal/config"
	"gitlab.com/jobfeed.net/internal/core/services/dispatch"
	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/prompt"
	"gitlab.com/jobfeed.net/internal/static/errs"
	"gitlab.com/jobfeed.net/internal/tcp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("jobclient", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Correct usage: jobclient <host> <port>\n")
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nothing to clean up yet, so these exit directly.
	if err := config.LoadEnv(); err != nil {
		return fatal(err)
	}
	ip, err := config.ResolveHost(ctx, flags.Arg(0))
	if err != nil {
		return fatal(err)
	}
	port, err := config.ParsePort(flags.Arg(1))
	if err != nil {
		return fatal(err)
	}

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLogger(logging.Options{
		Level:  sysCfg.LogConfig.Level,
		Output: sysCfg.LogConfig.Output,
	})
	defer logger.Sync()

	// The consumers outlive ctx: an interrupt reaches them through channel
	// closure, not cancellation.
	fanout := dispatch.NewFanout(context.Background(), os.Stdout, os.Stderr, sysCfg.ClientConfig.ConsumerBuffer, logger)
	prompter := prompt.NewConsolePrompter(os.Stdin, os.Stdout)

	client := tcp.NewTCPClient(net.JoinHostPort(ip, strconv.Itoa(port)), prompter, fanout, logger,
		tcp.WithDialTimeout(sysCfg.ClientConfig.DialTimeout),
		tcp.WithConsumerStopTimeout(sysCfg.ClientConfig.ConsumerStopTimeout),
	)

	if err := client.Connect(ctx); err != nil {
		logger.Error("Failed to connect to server", "error", err)
		if errors.Is(err, errs.ErrInterrupted) {
			return client.Terminate(domain.CauseInterrupt)
		}
		return client.Terminate(domain.CauseError)
	}

	cause := client.Run(ctx)
	return client.Terminate(cause)
}

// fatal reports an error before the logger exists.
func fatal(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
