package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MokshC/Compound/internal/clip"
	"github.com/MokshC/Compound/internal/config"
	ilog "github.com/MokshC/Compound/internal/log"
	"github.com/MokshC/Compound/internal/probe"
	"github.com/MokshC/Compound/internal/report"
	"github.com/MokshC/Compound/internal/snapshot"
	"github.com/MokshC/Compound/internal/timecode"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// host is what every command needs from a host adapter: the clip.Host
// queries, item listing for reports, and the command journal.
type host interface {
	report.Source
	Encode(ctx context.Context, w io.Writer) error
	WriteFile(ctx context.Context, path string) error
}

type flags struct {
	config      string
	host        string
	snapshot    string
	media       string
	timelineFPS float64
	offset      int64
	out         string
	write       bool
	writeTo     string
	verbose     bool
	fps         float64
	drop        bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compound", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var fl flags
	configHelp := "path of config file, default " + config.DefaultPath
	if env := os.Getenv(config.PathEnv); env != "" {
		configHelp += ", inherited from " + config.PathEnv + " environment variable"
	}
	fs.StringVar(&fl.config, "config", "", configHelp)
	fs.StringVar(&fl.host, "host", "snapshot", "host adapter: snapshot or probe")
	fs.StringVar(&fl.snapshot, "snapshot", "", "session snapshot exported by the host bridge (snapshot host)")
	fs.StringVar(&fl.media, "media", "", "comma separated media files, the first is the selected item (probe host)")
	fs.Float64Var(&fl.timelineFPS, "timeline-fps", 0, "timeline frame rate (probe host), 0 uses the first file's rate")
	fs.Int64Var(&fl.offset, "offset", 0, "left offset in frames applied to every file (probe host)")
	fs.StringVar(&fl.out, "out", "", "journal file for host commands, printed when empty")
	fs.BoolVar(&fl.write, "w", false, "write the report to an excel file. will print instead when it is false.")
	fs.StringVar(&fl.writeTo, "f", "compound_report.xlsx", "excel file path to be written. no-op if -w flag is off. existing file will be overridden.")
	fs.BoolVar(&fl.verbose, "v", false, "log debug output and report row errors")
	fs.Float64Var(&fl.fps, "fps", 24, "frame rate for the frames and timecode commands")
	fs.BoolVar(&fl.drop, "drop", false, "use drop-frame counting for the frames and timecode commands")
	fs.Usage = func() {
		fmt.Fprintln(stderr, filepath.Base(os.Args[0])+" [flags] [compound|report|frames TC|timecode FRAME]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	command := "compound"
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	path, explicit := config.ResolvePath(fl.config)
	cfg, err := config.Load(path, explicit)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}
	level := cfg.LogLevel
	if fl.verbose {
		level = "debug"
	}
	ilog.Configure(ilog.Config{Level: level, Output: stderr})
	ctx := ilog.ContextWithRunID(context.Background(), ilog.NewRunID())
	logger := ilog.WithComponentFromContext(ctx, "main")

	switch command {
	case "frames":
		if len(rest) != 1 {
			fs.Usage()
			return exitUsage
		}
		frame, err := timecode.ParseFrame(rest[0], timecode.Rate(fl.fps), fl.drop)
		if err != nil {
			logger.Error().Err(err).Msg("conversion failed")
			return exitError
		}
		fmt.Fprintln(stdout, frame)
		return exitOK
	case "timecode":
		if len(rest) != 1 {
			fs.Usage()
			return exitUsage
		}
		frame, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "invalid frame: %v\n", rest[0])
			return exitUsage
		}
		render := timecode.FromFrame
		if fl.drop {
			render = timecode.FromFrameDrop
		}
		tc, err := render(frame, timecode.Rate(fl.fps).Base())
		if err != nil {
			logger.Error().Err(err).Msg("conversion failed")
			return exitError
		}
		fmt.Fprintln(stdout, tc)
		return exitOK
	case "compound", "report":
	default:
		fmt.Fprintf(stderr, "unknown command: %v\n", command)
		fs.Usage()
		return exitUsage
	}

	h, err := openHost(ctx, fl, cfg)
	if err != nil {
		if errors.Is(err, clip.ErrHostUnavailable) {
			logger.Error().Err(err).Str(ilog.FieldHost, fl.host).Msg("host unavailable, nothing converted")
		} else {
			logger.Error().Err(err).Str(ilog.FieldHost, fl.host).Msg("could not open host")
		}
		return exitError
	}
	opts := clip.Options{DefaultRate: cfg.DefaultMediaRate(), NamePrefix: cfg.NamePrefix}

	if command == "report" {
		return runReport(ctx, h, opts, cfg, fl, stdout)
	}

	if _, err := clip.Create(ctx, h, opts); err != nil {
		logger.Error().Err(err).Msg("compound clip not created")
		return exitError
	}
	if fl.out == "" {
		err = h.Encode(ctx, stdout)
	} else {
		err = h.WriteFile(ctx, fl.out)
	}
	if err != nil {
		logger.Error().Err(err).Msg("could not write journal")
		return exitError
	}
	return exitOK
}

func openHost(ctx context.Context, fl flags, cfg *config.Config) (host, error) {
	switch fl.host {
	case "snapshot":
		if fl.snapshot == "" {
			return nil, fmt.Errorf("%w: -snapshot is required", clip.ErrHostUnavailable)
		}
		h, err := snapshot.Load(fl.snapshot)
		if err != nil {
			return nil, err
		}
		logger := ilog.WithComponentFromContext(ctx, "main")
		logger.Info().
			Str(ilog.FieldPath, fl.snapshot).
			Str(ilog.FieldProject, h.Project()).
			Str(ilog.FieldTimeline, h.TimelineName()).
			Msg("snapshot opened")
		return h, nil
	case "probe":
		var files []string
		for _, f := range strings.Split(fl.media, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		return probe.New(ctx, files, probe.Options{
			TimelineRate: fl.timelineFPS,
			LeftOffset:   fl.offset,
			Timeout:      cfg.ProbeTimeout(),
		})
	}
	return nil, fmt.Errorf("unknown host: %v", fl.host)
}

func runReport(ctx context.Context, h host, opts clip.Options, cfg *config.Config, fl flags, stdout io.Writer) int {
	logger := ilog.WithComponentFromContext(ctx, "main")

	cols, err := report.Compile(cfg.Fields)
	if err != nil {
		logger.Error().Err(err).Msg("invalid report fields")
		return exitError
	}
	rows, err := report.Build(ctx, h, opts)
	if err != nil {
		logger.Error().Err(err).Msg("report failed")
		return exitError
	}
	table, errs := report.Render(rows, cols)
	if fl.verbose {
		for _, r := range rows {
			if r.Err != nil {
				logger.Warn().Err(r.Err).Str(ilog.FieldItem, r.Item).Msg("incomplete row")
			}
		}
		for _, err := range errs {
			logger.Warn().Err(err).Msg("failed to execute")
		}
	}

	writeTo := fl.writeTo
	if writeTo == "" {
		// Cannot write, print instead.
		fl.write = false
	}
	if fl.write {
		err = report.WriteExcel(ctx, writeTo, cfg.Report.Sheet, table)
	} else {
		err = report.WriteText(stdout, table, cfg.Report.Separator)
	}
	if err != nil {
		logger.Error().Err(err).Msg("could not write report")
		return exitError
	}
	return exitOK
}
