package process

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/sysmon/pkg/cpu"
	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/system"
)

// UnknownUser is returned by User when no account matches the process uid.
const UnknownUser = "?"

// ErrNoSuchUser is returned with UnknownUser when the account database has no entry for a uid.
var ErrNoSuchUser = errors.New("no account for uid")

// Record is a single process snapshot. It is rebuilt on every call and never cached.
type Record struct {
	PID         int    `json:"pid" yaml:"pid"`
	Command     string `json:"command" yaml:"command"`
	User        string `json:"user" yaml:"user"`
	RamMB       string `json:"ram_mb" yaml:"ram_mb"`
	UpTime      int64  `json:"uptime_s" yaml:"uptime_s"`
	ActiveTicks uint64 `json:"active_ticks" yaml:"active_ticks"`
}

// Stats reads per-process metrics.
type Stats struct {
	r      *procfs.Reader
	sys    *system.Stats
	cpu    *cpu.Stats
	logger *logrus.Logger

	// ClockTicks converts stat start times to seconds; defaults to procfs.UserHZ().
	ClockTicks int64
}

// New creates a process stats reader. A nil logger logs warnings to stderr.
func New(r *procfs.Reader, logger *logrus.Logger) *Stats {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Stats{
		r:          r,
		sys:        system.New(r),
		cpu:        cpu.New(r),
		logger:     logger,
		ClockTicks: procfs.UserHZ(),
	}
}

// Pids lists live process ids.
func (s *Stats) Pids() ([]int, error) {
	return Pids(s.r)
}

// Command returns the command line of pid with NUL argument separators shown as spaces.
func (s *Stats) Command(pid int) (string, error) {
	line, err := s.r.FirstLine(s.r.PID(pid, "cmdline"))
	if err != nil {
		if errors.Is(err, procfs.ErrMalformed) {
			// kernel threads have an empty cmdline
			return "", nil
		}
		return "", err
	}
	return strings.TrimRight(strings.ReplaceAll(line, "\x00", " "), " "), nil
}

// Ram returns VmSize in whole megabytes as a decimal string, or "0" when unreported.
func (s *Stats) Ram(pid int) (string, error) {
	value, err := s.r.Lookup(s.r.PID(pid, "status"), "VmSize:")
	if err != nil {
		return "0", err
	}
	if len(value) < 1 {
		return "0", fmt.Errorf("%w: VmSize has no value", procfs.ErrMalformed)
	}
	kb := procfs.ParseUint(value[0])
	return strconv.FormatUint(kb/1024, 10), nil
}

// Uid returns the real uid of pid as reported in its status file.
func (s *Stats) Uid(pid int) (string, error) {
	value, err := s.r.Lookup(s.r.PID(pid, "status"), "Uid:")
	if err != nil {
		return "", err
	}
	if len(value) < 1 {
		return "", fmt.Errorf("%w: Uid has no value", procfs.ErrMalformed)
	}
	return value[0], nil
}

// User resolves the owner of pid through the account database. When no entry matches it
// returns UnknownUser and ErrNoSuchUser.
func (s *Stats) User(pid int) (string, error) {
	uid, err := s.Uid(pid)
	if err != nil {
		return UnknownUser, err
	}

	name, err := s.lookupUser(uid)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"pid":   pid,
			"uid":   uid,
			"error": err,
		}).Debug("Falling back to placeholder user")
		return UnknownUser, err
	}
	return name, nil
}

// lookupUser scans name:password:uid:... lines. Splitting on ':' keeps an empty
// password field from shifting the uid column.
func (s *Stats) lookupUser(uid string) (string, error) {
	var name string
	err := s.r.ScanLines(s.r.Config().PasswdPath, func(line string) error {
		parts := strings.Split(line, ":")
		if len(parts) >= 3 && parts[2] == uid && parts[0] != "" {
			name = parts[0]
			return io.EOF
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("%w %s", ErrNoSuchUser, uid)
	}
	return name, nil
}

// UpTime returns the seconds pid has been running: system uptime minus its start time.
func (s *Stats) UpTime(pid int) (int64, error) {
	st, err := s.r.ProcStat(pid)
	if err != nil {
		return 0, err
	}
	if !st.Has(procfs.FieldStartTime) {
		return 0, fmt.Errorf("%w: stat for pid %d has no start time", procfs.ErrMalformed, pid)
	}

	sysUp, err := s.sys.UpTime()
	if err != nil {
		return 0, err
	}

	hz := s.ClockTicks
	if hz <= 0 {
		hz = procfs.DefaultUserHZ
	}
	up := sysUp - int64(st.StartTime)/hz
	if up < 0 {
		return 0, nil
	}
	return up, nil
}

// ActiveJiffies returns the CPU ticks pid and its reaped children have consumed.
func (s *Stats) ActiveJiffies(pid int) (uint64, error) {
	return s.cpu.ProcessActiveJiffies(pid)
}

// Record gathers every metric for pid. It fails only when the process is gone; a missing
// user or VmSize leaves that field at its default.
func (s *Stats) Record(pid int) (Record, error) {
	rec := Record{PID: pid}

	ticks, err := s.ActiveJiffies(pid)
	if err != nil {
		return Record{}, err
	}
	rec.ActiveTicks = ticks

	var errs []error
	if rec.Command, err = s.Command(pid); err != nil {
		errs = append(errs, err)
	}
	if rec.User, err = s.User(pid); err != nil && !errors.Is(err, ErrNoSuchUser) {
		errs = append(errs, err)
	}
	if rec.RamMB, err = s.Ram(pid); err != nil {
		errs = append(errs, err)
	}
	if rec.UpTime, err = s.UpTime(pid); err != nil {
		errs = append(errs, err)
	}

	for _, e := range errs {
		if errors.Is(e, procfs.ErrUnavailable) && !s.exists(pid) {
			return Record{}, e
		}
	}
	if len(errs) > 0 {
		s.logger.WithFields(logrus.Fields{
			"pid":   pid,
			"error": errors.Join(errs...),
		}).Debug("Partial process record")
	}
	return rec, nil
}

// Snapshot builds records for every live process, skipping those that exit mid-read.
func (s *Stats) Snapshot() ([]Record, error) {
	pids, err := s.Pids()
	if err != nil {
		return nil, err
	}
	return s.Records(pids), nil
}

// Records builds a record for each of pids, skipping those that have exited.
func (s *Stats) Records(pids []int) []Record {
	records := make([]Record, 0, len(pids))
	for _, pid := range pids {
		rec, err := s.Record(pid)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"pid":   pid,
				"error": err,
			}).Debug("Skipping process")
			continue
		}
		records = append(records, rec)
	}

	s.logger.WithFields(logrus.Fields{
		"enumerated": len(pids),
		"recorded":   len(records),
	}).Debug("Collected process records")
	return records
}

func (s *Stats) exists(pid int) bool {
	_, err := s.r.FirstLine(s.r.PID(pid, "stat"))
	return err == nil
}
