package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danpilch/sysmon/pkg/benchmark"
	"github.com/danpilch/sysmon/pkg/crosscheck"
	"github.com/danpilch/sysmon/pkg/output"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

func newSystemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "system",
		Short: "Show OS name, kernel, uptime, memory and process counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.registry()
			metrics := a.collect([]snapshot.Collector{reg.GetByName("System"), reg.GetByName("Memory")})
			return a.render("System", metrics)
		},
	}
}

func newCPUCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Show aggregate CPU jiffy counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics := a.collect([]snapshot.Collector{a.registry().GetByName("CPU")})
			return a.render("CPU", metrics)
		},
	}
}

func newProcsCmd(a *app) *cobra.Command {
	var (
		sortBy string
		top    int
	)
	cmd := &cobra.Command{
		Use:   "procs",
		Short: "List processes with command, user, RAM, uptime and CPU ticks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := output.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			records, err := a.processStats().Snapshot()
			if err != nil {
				return err
			}
			a.logger.WithField("count", len(records)).Debug("process snapshot taken")

			output.SortRecords(records, key)
			return output.RenderProcesses(a.out, a.format, records, top)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", string(output.SortCPU), "sort key: pid, ram, uptime, cpu")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "show only the first N processes (0 = all)")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Read every metric and report which could not be read",
		Long: `Runs all collectors once. Exit status is 0 when every metric was read,
1 when some were not, and 2 when none were.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics := a.collect(a.registry().Collectors())
			return a.render("System Snapshot", metrics)
		},
	}
}

func newCrossCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crosscheck",
		Short: "Compare procfs values with sysinfo(2) and uname(2) and run sanity checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics := a.collect(a.registry().Collectors())
			records, err := a.processStats().Snapshot()
			if err != nil {
				a.logger.WithError(err).Warn("process snapshot failed; skipping uptime sanity check")
			}

			res := crosscheck.Run(a.systemStats(), crosscheck.ProbeFor(a.opts.procRoot), metrics, records)
			switch a.format {
			case output.FormatJSON:
				if err := crosscheck.ReportJSON(a.out, res); err != nil {
					return err
				}
			case output.FormatTable:
				crosscheck.Report(a.out, res)
			default:
				return fmt.Errorf("crosscheck supports table and json output, not %s", a.format)
			}

			if res.Failed() {
				return exitCode(1)
			}
			return nil
		},
	}
}

func newBenchCmd(a *app) *cobra.Command {
	opts := benchmark.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated reads of every collector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, overhead := benchmark.Run(a.registry().Collectors(), opts)
			benchmark.RenderResults(a.out, results, overhead)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "timed reads per collector")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", opts.Warmup, "untimed reads before timing")
	return cmd
}
