package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/specialistvlad/nodeflow/internal/app"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
	"github.com/specialistvlad/nodeflow/modules/http_request"
)

// EnvPrefix is prepended to a flag's upper-cased name to form the
// environment variable that provides its default.
const EnvPrefix = "NODEFLOW_"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, os.LookupEnv)
}

func parse(args []string, output io.Writer, lookupEnv func(string) (string, bool)) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodeflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Nodeflow - A visual-workflow execution engine.

Usage:
  nodeflow [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a .hcl or .json workflow file, or a directory containing them.

Every option can also be set through an environment variable named after it,
for example NODEFLOW_LOG_LEVEL=debug for -log-level.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow file or directory (shorthand).")
	seedFlag := flagSet.String("seed", `{"initialValue":"hello world"}`, "JSON object passed to the start node.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	feedPortFlag := flagSet.Int("feed-port", 0, "Port for the socket.io status feed. 0 is disabled.")
	feedURLFlag := flagSet.String("feed-url", "", "URL of a remote status feed to publish node states to.")
	stepDelayFlag := flagSet.Duration("step-delay", 0, "Pause before each node runs, to make progress observable.")
	maxDepthFlag := flagSet.Int("max-depth", scheduler.DefaultMaxDepth, "Maximum number of nodes on a single path.")
	proxyFlag := flagSet.String("proxy-base-url", http_request.DefaultProxyBaseURL, "Prefix for http nodes that use the proxy.")
	httpTimeoutFlag := flagSet.Duration("http-timeout", http_request.DefaultTimeout, "Timeout of a single http node request.")
	storePathFlag := flagSet.String("store-path", "", "Directory of the run store. Empty disables persistence.")
	envFileFlag := flagSet.String("env-file", "", "Load NODEFLOW_* variables from this file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if err := applyEnv(flagSet, *envFileFlag, lookupEnv); err != nil {
		return nil, false, err
	}

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var seed model.Payload
	if err := json.Unmarshal([]byte(*seedFlag), &seed); err != nil {
		return nil, false, usageError("invalid seed: must be a JSON object: %v", err)
	}

	config, err := app.NewConfig(app.Config{
		WorkflowPath:    path,
		Seed:            seed,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
		FeedPort:        *feedPortFlag,
		FeedURL:         *feedURLFlag,
		StepDelay:       *stepDelayFlag,
		MaxDepth:        *maxDepthFlag,
		ProxyBaseURL:    *proxyFlag,
		HTTPTimeout:     *httpTimeoutFlag,
		StorePath:       *storePathFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// applyEnv sets every flag that was not given on the command line from its
// NODEFLOW_* variable. The process environment wins over the env file.
func applyEnv(flagSet *flag.FlagSet, envFile string, lookupEnv func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return usageError("failed to read env file %s: %v", envFile, err)
		}
		fileVars = vars
	}

	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var errs *multierror.Error
	flagSet.VisitAll(func(f *flag.Flag) {
		if explicit[f.Name] || f.Name == "w" || f.Name == "env-file" {
			return
		}
		key := EnvVar(f.Name)
		value, ok := lookupEnv(key)
		if !ok {
			value, ok = fileVars[key]
		}
		if !ok {
			return
		}
		if err := flagSet.Set(f.Name, value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", key, err))
		}
	})
	if err := errs.ErrorOrNil(); err != nil {
		return usageError("invalid environment: %v", err)
	}
	return nil
}

// EnvVar returns the environment variable backing a flag.
func EnvVar(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
