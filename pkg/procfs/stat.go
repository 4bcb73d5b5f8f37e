package procfs

import (
	"fmt"
	"strconv"
	"strings"
)

// Field positions in /proc/[pid]/stat, 1-indexed as in proc(5).
const (
	FieldPID       = 1
	FieldComm      = 2
	FieldState     = 3
	FieldPPID      = 4
	FieldUTime     = 14
	FieldSTime     = 15
	FieldCUTime    = 16
	FieldCSTime    = 17
	FieldStartTime = 22
	FieldVSize     = 23
	FieldRSS       = 24
)

// minStatFields is the shortest line ParseProcStat accepts: everything up to cstime.
const minStatFields = FieldCSTime

// ProcStat is the tokenized form of a /proc/[pid]/stat line.
type ProcStat struct {
	PID       int
	Comm      string
	State     string
	PPID      int
	UTime     uint64
	STime     uint64
	CUTime    uint64
	CSTime    uint64
	StartTime uint64
	VSize     uint64
	RSS       uint64

	// NumFields counts the fields present, the command counted as one.
	NumFields int
}

// Has reports whether the 1-indexed field was present on the line.
func (s ProcStat) Has(field int) bool {
	return field >= 1 && field <= s.NumFields
}

// ActiveTicks returns utime + stime + cutime + cstime.
func (s ProcStat) ActiveTicks() uint64 {
	return s.UTime + s.STime + s.CUTime + s.CSTime
}

// ParseProcStat tokenizes a stat line in one pass. The command is taken from between the
// first '(' and the last ')' so names holding spaces or parentheses do not shift the
// numeric fields that follow.
func ParseProcStat(line string) (ProcStat, error) {
	open := strings.IndexByte(line, '(')
	closing := strings.LastIndexByte(line, ')')
	if open < 0 || closing < open {
		return ProcStat{}, fmt.Errorf("%w: stat line has no command field", ErrMalformed)
	}

	var st ProcStat
	pid, err := strconv.Atoi(strings.TrimSpace(line[:open]))
	if err != nil {
		return ProcStat{}, fmt.Errorf("%w: bad pid %q", ErrMalformed, line[:open])
	}
	st.PID = pid
	st.Comm = line[open+1 : closing]

	rest := strings.Fields(line[closing+1:])
	st.NumFields = FieldComm + len(rest)
	if st.NumFields < minStatFields {
		return ProcStat{}, fmt.Errorf("%w: stat has %d fields, need %d", ErrMalformed, st.NumFields, minStatFields)
	}

	field := func(n int) string {
		if n > st.NumFields {
			return ""
		}
		return rest[n-FieldState]
	}

	st.State = field(FieldState)
	st.PPID, _ = strconv.Atoi(field(FieldPPID))
	st.UTime = ParseUint(field(FieldUTime))
	st.STime = ParseUint(field(FieldSTime))
	st.CUTime = ParseUint(field(FieldCUTime))
	st.CSTime = ParseUint(field(FieldCSTime))
	st.StartTime = ParseUint(field(FieldStartTime))
	st.VSize = ParseUint(field(FieldVSize))
	st.RSS = ParseUint(field(FieldRSS))

	return st, nil
}

// ProcStat reads and parses /proc/[pid]/stat.
func (r *Reader) ProcStat(pid int) (ProcStat, error) {
	line, err := r.FirstLine(r.PID(pid, "stat"))
	if err != nil {
		return ProcStat{}, err
	}
	return ParseProcStat(line)
}
