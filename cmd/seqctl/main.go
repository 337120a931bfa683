// Command seqctl runs a pipeline definition over a file or stdin.
//
//	seqctl --definition words --dir ./definitions --input file.txt --mode lines --output json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kbukum/collection/config"
	"github.com/kbukum/collection/definition"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/observability"
	"github.com/kbukum/collection/pipeline"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/source"
	"github.com/kbukum/collection/version"
)

const name = "seqctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print the version and exit")
	configFile := fs.String("config", "", "config file path")
	fs.String("definition", "", "definition to apply, looked up as <dir>/<name>.yaml")
	fs.String("dir", ".", "directory holding definitions")
	fs.String("input", "", "input file, stdin when empty or -")
	fs.String("mode", "lines", "how input is read: lines, chars or bytes")
	fs.String("output", "json", "result format: json, implode or count")
	fs.String("sep", "", "separator used by --output implode")
	fs.String("logging-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		return version.Print(stdout, name)
	}

	bound := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name != "version" && f.Name != "config" {
			bound.AddFlag(f)
		}
	})
	opts := []config.LoaderOption{config.WithEnvPrefix("SEQCTL"), config.WithFlags(bound)}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}

	var cfg Config
	if err := config.LoadConfig(name, &cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetGlobalLogger(logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr))
	logger.RegisterDefaults()
	log := logger.WithComponent(name)

	if cfg.Telemetry.Enabled() {
		shutdown, err := initTelemetry(ctx, &cfg)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ctx = logger.ContextWithRunID(ctx, uuid.NewString())

	in, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	p := pipeline.New(readInput(cfg.Mode, in))

	if cfg.Definition != "" {
		resolver := definition.NewResolver(nil, definition.NewFileLoader(cfg.Dir))
		if p, err = resolver.Apply(ctx, cfg.Definition, p); err != nil {
			closeInput(in)
			return err
		}
	}

	if err := write(ctx, p, cfg.Output, cfg.Sep, stdout); err != nil {
		return err
	}
	log.WithContext(ctx).Info("run complete", logger.Fields(
		logger.FieldDefinition, cfg.Definition,
		"output", cfg.Output,
	))
	return nil
}

func openInput(path string, stdin io.Reader) (io.Reader, error) {
	if path == "" || path == "-" {
		return stdin, nil
	}
	return os.Open(path)
}

func closeInput(r io.Reader) {
	if c, ok := r.(*os.File); ok && c != os.Stdin {
		_ = c.Close()
	}
}

func readInput(mode string, r io.Reader) sequence.Iterable {
	switch mode {
	case "chars":
		return source.FromReader(r)
	case "bytes":
		return source.FromBytes(r)
	default:
		return source.FromLines(r)
	}
}

func write(ctx context.Context, p *pipeline.Pipeline, output, sep string, w io.Writer) error {
	switch output {
	case "count":
		n, err := p.Count(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, n)
		return err
	case "implode":
		s, err := p.Implode(ctx, sep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	default:
		data, err := p.JSON(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
}

func initTelemetry(ctx context.Context, cfg *Config) (func(), error) {
	tcfg := observability.DefaultTracerConfig(cfg.Name)
	tcfg.Environment = cfg.Environment
	tcfg.Endpoint = cfg.Telemetry.Endpoint
	tcfg.Insecure = cfg.Telemetry.Insecure
	tcfg.SampleRate = cfg.Telemetry.SampleRate
	if cfg.Version != "" {
		tcfg.ServiceVersion = cfg.Version
	}
	tp, err := observability.InitTracer(ctx, &tcfg)
	if err != nil {
		return nil, err
	}

	mcfg := observability.DefaultMeterConfig(cfg.Name)
	mcfg.Environment = tcfg.Environment
	mcfg.ServiceVersion = tcfg.ServiceVersion
	mcfg.Endpoint = cfg.Telemetry.Endpoint
	mcfg.Insecure = cfg.Telemetry.Insecure
	mcfg.Interval = cfg.Telemetry.Interval
	mp, err := observability.InitMeter(ctx, &mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func() {
		shutdownCtx := context.WithoutCancel(ctx)
		if err := mp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("meter shutdown failed", logger.ErrorFields("shutdown", err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}, nil
}
