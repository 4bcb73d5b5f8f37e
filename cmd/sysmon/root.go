package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/sysmon/pkg/collectors"
	"github.com/danpilch/sysmon/pkg/debug"
	"github.com/danpilch/sysmon/pkg/output"
	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

type options struct {
	procRoot  string
	osRelease string
	passwd    string
	format    string
	logLevel  string
	timing    bool
	raw       bool
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	opts   *options
	out    io.Writer
	errOut io.Writer
	logger *logrus.Logger
	reader *procfs.Reader
	format output.Format
}

func newRootCmd() *cobra.Command {
	defaults := procfs.DefaultConfig()
	opts := &options{}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "sysmon",
		Short:         "Read system, CPU and process metrics from procfs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.procRoot, "proc-root", defaults.ProcRoot, "procfs mount point")
	flags.StringVar(&opts.osRelease, "os-release", defaults.OSReleasePath, "os-release file")
	flags.StringVar(&opts.passwd, "passwd", defaults.PasswdPath, "account database")
	flags.StringVarP(&opts.format, "format", "o", string(output.FormatTable), "output format: table, json, yaml, tsv")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.timing, "timing", false, "print per-collector timing to stderr")
	flags.BoolVar(&opts.raw, "raw", false, "dump raw metric values to stderr")

	root.AddCommand(
		newSystemCmd(a),
		newCPUCmd(a),
		newProcsCmd(a),
		newCheckCmd(a),
		newCrossCheckCmd(a),
		newBenchCmd(a),
	)
	return root
}

func (a *app) setup(out, errOut io.Writer) error {
	a.out, a.errOut = out, errOut

	level, err := logrus.ParseLevel(a.opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	a.logger = logrus.New()
	a.logger.SetOutput(errOut)
	a.logger.SetLevel(level)

	if a.format, err = output.ParseFormat(a.opts.format); err != nil {
		return err
	}

	a.reader, err = procfs.New(procfs.Config{
		ProcRoot:      a.opts.procRoot,
		OSReleasePath: a.opts.osRelease,
		PasswdPath:    a.opts.passwd,
	})
	if err != nil {
		return err
	}
	a.logger.WithField("proc_root", a.opts.procRoot).Debug("procfs reader ready")
	return nil
}

func (a *app) registry() *collectors.Registry {
	return collectors.Default(a.reader, a.logger)
}

func (a *app) processStats() *process.Stats {
	return process.New(a.reader, a.logger)
}

func (a *app) systemStats() *system.Stats {
	return system.New(a.reader)
}

// collect runs the collectors, honouring --timing and --raw.
func (a *app) collect(cs []snapshot.Collector) []snapshot.Metric {
	var timed []*debug.TimedCollector
	if a.opts.timing {
		cs, timed = debug.Wrap(cs)
	}

	metrics := snapshot.NewRunner(a.logger).RunAll(cs)

	if a.opts.timing {
		debug.TimingReport(a.errOut, debug.Timings(timed))
	}
	if a.opts.raw {
		debug.DumpRawMetrics(a.errOut, metrics)
	}
	return metrics
}

// render prints metrics and maps their statuses to the process exit code.
func (a *app) render(title string, metrics []snapshot.Metric) error {
	f := output.NewFormatter(a.format, a.out)
	f.SetTitle(title)
	if err := f.Render(metrics); err != nil {
		return err
	}
	return exitCode(snapshot.ExitCode(metrics))
}
