package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/blockflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("blockflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
blockflow - a causal controller-manager for periodic control blocks.

Usage:
  blockflow [options] [SCHEME_PATH]

Arguments:
  SCHEME_PATH
    Path to a single .hcl scheme file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	schemeFlag := flagSet.String("scheme", "", "Path to the scheme file or directory.")
	sFlag := flagSet.String("s", "", "Path to the scheme file or directory (shorthand).")
	tickFlag := flagSet.Duration("tick", 10*time.Millisecond, "Host cycle period.")
	metricsPortFlag := flagSet.Int("metrics-port", 0, "Port for the metrics/health HTTP server. 0 is disabled.")
	rpcAddrFlag := flagSet.String("rpc-addr", "", "Mangos listen URL for the RPC adapter (e.g. tcp://:7205). Empty is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *schemeFlag != "" {
		path = *schemeFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Scheme path determined.", "path", path)

	if path == "" {
		slog.Debug("No scheme path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid log format %q", logFormat)}
	}

	cfg, err := app.NewConfig(app.Config{
		SchemePath:  path,
		LogFormat:   logFormat,
		LogLevel:    strings.ToLower(*logLevelFlag),
		TickPeriod:  *tickFlag,
		MetricsPort: *metricsPortFlag,
		RPCAddr:     *rpcAddrFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
