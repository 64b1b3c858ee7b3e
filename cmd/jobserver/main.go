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
	"time"

	"github.com/spf13/pflag"

	"gitlab.com/jobfeed.net/internal/adapter/logging"
	"gitlab.com/jobfeed.net/internal/config"
	"gitlab.com/jobfeed.net/internal/domain"
	http2 "gitlab.com/jobfeed.net/internal/http"
	"gitlab.com/jobfeed.net/internal/tcp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("jobserver", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Correct usage: jobserver <filename> <port>\n")
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
	filename := flags.Arg(0)

	// Nothing to clean up yet, so these exit directly.
	if err := config.LoadEnv(); err != nil {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := tcp.NewTCPServer(filename, logger,
		tcp.WithAddress(net.JoinHostPort(sysCfg.ServerConfig.BindHost, strconv.Itoa(port))))
	if err := server.Start(); err != nil {
		logger.Error("Failed to start server", "operation", "listen()", "error", err)
		return server.Terminate(domain.CauseError)
	}

	if sysCfg.ServerConfig.StatusAddr != "" {
		statusServer := http2.NewServer(sysCfg.ServerConfig.StatusAddr, "jobserver", server, logger)
		if err := statusServer.Init(); err != nil {
			logger.Error("Failed to init status server", "error", err)
		} else if err := statusServer.Start(ctx); err != nil {
			logger.Error("Failed to start status server", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				statusServer.Stop(shutdownCtx)
			}()
		}
	}

	cause := server.Serve(ctx)
	return server.Terminate(cause)
}

// fatal reports an error before the logger exists.
func fatal(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
