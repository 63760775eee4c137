package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/dynaspy/internal/config"
	"github.com/vburojevic/dynaspy/internal/debugger"
	"github.com/vburojevic/dynaspy/internal/domain"
	"github.com/vburojevic/dynaspy/internal/output"
)

// Build information, set with -ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Globals carries process-wide collaborators into the command
type Globals struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Platform debugger.Platform
	Clock    clock.Clock

	// ConfigFile is the config file Config was read from, "" for defaults
	ConfigFile string
}

// CLI is the command line of dynaspy
type CLI struct {
	Debug   bool             `short:"d" negatable:"" default:"${config_debug}" help:"Enable debugging."`
	Outfile string           `short:"o" placeholder:"PATH" help:"Store output to a file."`
	Format  string           `short:"f" enum:"text,ndjson" default:"${config_format}" help:"Report format: text or ndjson."`
	Summary bool             `negatable:"" default:"${config_summary}" help:"Print a session summary table to stderr when the mark exits (text format)."`
	Volume  string           `enum:"nt,dos" default:"${config_volume}" help:"Volume name style for module paths: nt or dos."`
	MaxPath int              `name:"max-path" default:"${config_max_path}" help:"Path buffer size, in UTF-16 units, used to resolve module paths."`
	Version kong.VersionFlag `short:"V" help:"Print version and exit."`

	Program   string   `arg:"" name:"mark_name" help:"The mark program to execute."`
	Arguments []string `arg:"" optional:"" passthrough:"" name:"arguments" help:"The arguments for the mark program."`
}

// sessionReporter is a debugger.Reporter that can also close out a session
type sessionReporter interface {
	debugger.Reporter
	SessionEnd(*domain.SessionSummary) error
}

func configVars(cfg *config.Config) kong.Vars {
	if cfg == nil {
		cfg = config.Default()
	}
	return kong.Vars{
		"config_debug":    strconv.FormatBool(cfg.Debug),
		"config_format":   cfg.Format,
		"config_summary":  strconv.FormatBool(cfg.Summary),
		"config_volume":   cfg.Resolver.Volume,
		"config_max_path": strconv.Itoa(cfg.Resolver.MaxPath),
		"version":         fmt.Sprintf("dynaspy %s (%s)", Version, Commit),
	}
}

// Main parses args, runs a session and returns the process exit code
func Main(args []string, globals *Globals) int {
	var c CLI

	// kong reports help and --version through Exit; capture the code instead
	// of leaving the process.
	exitCode := -1
	parser, err := kong.New(&c,
		kong.Name("dynaspy"),
		kong.Description("Log the DLLs that are dynamically loaded at runtime."),
		kong.Writers(globals.Stdout, globals.Stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		configVars(globals.Config),
	)
	if err != nil {
		fmt.Fprintf(globals.Stderr, "Error: %v\n", err)
		return debugger.ExitFailure
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(globals.Stderr, "Error: %v\n", err)
		fmt.Fprintln(globals.Stderr, "Run 'dynaspy --help' for usage.")
		return debugger.ExitFailure
	}
	return c.Run(globals)
}

// Run launches the mark and reports its module loads
func (c *CLI) Run(globals *Globals) int {
	if err := validateFlags(globals, c); err != nil {
		return debugger.ExitFailure
	}

	log := newSessionLogger(c.Debug, c.Format, globals.Stderr)
	defer func() { _ = log.Sync() }()
	if globals.ConfigFile != "" {
		log.Debug("Using config file", zap.String("path", globals.ConfigFile))
	}

	sink, err := output.OpenSink(c.Outfile, globals.Stdout)
	if err != nil {
		fmt.Fprintf(globals.Stderr, "Could not open output file named %s!\n", c.Outfile)
		return debugger.ExitFailure
	}

	var reporter sessionReporter
	var ndjson *output.NDJSONWriter
	if c.Format == "ndjson" {
		ndjson = output.NewNDJSONWriter(sink)
		reporter = ndjson
	} else {
		reporter = output.NewTextWriter(sink)
	}

	ctrl := debugger.NewController(debugger.Options{
		Platform:    globals.Platform,
		Reporter:    reporter,
		Logger:      log,
		Clock:       globals.Clock,
		MaxPath:     c.MaxPath,
		VolumeFlags: volumeFlags(c.Volume),
	})
	res, runErr := ctrl.Run(c.Program, c.Arguments)
	if runErr != nil {
		outputSessionError(globals, ndjson, c.Program, runErr)
	}

	if res.Launched {
		summary := res.Session.Summary()
		if err := reporter.SessionEnd(&summary); err != nil {
			fmt.Fprintf(globals.Stderr, "Warning: failed to write session summary: %v\n", err)
		}
		if c.Summary && c.Format == "text" {
			if err := output.WriteSummaryTable(globals.Stderr, &summary, isTerminal(globals.Stderr)); err != nil {
				fmt.Fprintf(globals.Stderr, "Warning: failed to write session summary: %v\n", err)
			}
		}
	}

	if err := sink.Close(); err != nil {
		fmt.Fprintf(globals.Stderr, "Warning: failed to close output file: %v\n", err)
	}
	return res.ExitStatus
}

func volumeFlags(volume string) uint32 {
	if volume == config.VolumeDOS {
		return debugger.VolumeNameDOS
	}
	return debugger.VolumeNameNT
}

// outputSessionError prints the message matching the kind of session failure
func outputSessionError(globals *Globals, ndjson *output.NDJSONWriter, program string, err error) {
	var (
		le *debugger.LaunchError
		ce *debugger.ContinuationError
		re *debugger.ReceiveError
	)
	switch {
	case errors.As(err, &le):
		_ = outputErrorCommon(globals, ndjson, "LAUNCH_FAILED",
			fmt.Sprintf("Did not launch mark process with path %s because %s", program, le.Err),
			"check that the mark path exists and is an executable")
	case errors.As(err, &ce):
		_ = outputErrorCommon(globals, ndjson, "CONTINUE_FAILED",
			fmt.Sprintf("Error: ContinueDebugEvent: %s", ce.Err))
		fmt.Fprintln(globals.Stderr, "Error: Exiting ... ")
	case errors.As(err, &re):
		_ = outputErrorCommon(globals, ndjson, "WAIT_FAILED",
			fmt.Sprintf("Error: WaitForDebugEvent: %s", re.Err))
		fmt.Fprintln(globals.Stderr, "Error: Exiting ... ")
	default:
		_ = outputErrorCommon(globals, ndjson, "SESSION_FAILED", fmt.Sprintf("Error: %v", err))
	}
}
