package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/lrpmp/internal/config"
	"github.com/danmuck/lrpmp/internal/logging"
	"github.com/danmuck/lrpmp/internal/observability"
)

const usage = `usage: lrpmpctl [-config path] [-log-level level] [-metrics] <command> [flags]

commands:
  kinds      print the kind table
  uri        validate a uri and optionally match it against a pattern
  transcode  re-encode a message stream read from stdin
  call       write a CALL message to stdout
  init       write a config template
`

type env struct {
	cfg    config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command func(e env, args []string) error

var commands = map[string]command{
	"kinds":     runKinds,
	"uri":       runURI,
	"transcode": runTranscode,
	"call":      runCall,
	"init":      runInit,
}

// errUsage marks failures caused by bad arguments.
var errUsage = errors.New("usage")

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lrpmpctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "TOML config path")
	logLevel := fs.String("log-level", "", "log level override: trace|debug|info|warn|error")
	metrics := fs.Bool("metrics", false, "dump codec metrics to stderr on exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "lrpmpctl: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	if lvl, ok := logging.ParseLevel(level); ok {
		logging.SetLevel(lvl)
	} else {
		fmt.Fprintf(stderr, "lrpmpctl: unknown log level %q\n", level)
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "lrpmpctl: unknown command %q\n", name)
		fs.Usage()
		return 2
	}
	logging.Debugf("lrpmpctl command=%s codec=%s framed=%t", name, cfg.Codec, cfg.Framed)

	err := cmd(env{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}, fs.Args()[1:])
	if *metrics {
		if merr := observability.WriteText(stderr); merr != nil {
			logging.Warnf("metrics dump failed: %v", merr)
		}
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "lrpmpctl %s: %v\n", name, err)
		}
		return 2
	default:
		logging.Errf("lrpmpctl %s failed: %v", name, err)
		fmt.Fprintf(stderr, "lrpmpctl %s: %v\n", name, err)
		return 1
	}
}

func newFlagSet(e env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
