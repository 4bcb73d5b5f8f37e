package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/danpilch/sysmon/pkg/snapshot"
)

// DumpRawMetrics outputs every metric with its raw value, source file and error text.
func DumpRawMetrics(w io.Writer, metrics []snapshot.Metric) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Raw Metrics Dump"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 85)))
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		debugHeader.Render("METRIC                  "),
		debugHeader.Render("RAW VALUE     "),
		debugHeader.Render("STATUS     "),
		debugHeader.Render("SOURCE          "),
		debugHeader.Render("DETAIL    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 85)))

	for _, m := range metrics {
		fmt.Fprintf(w, "  %-25s %-15.4f %-12s %-17s %s\n",
			m.Resource+"/"+m.Name, m.RawValue, m.Status, m.Source, debugDim.Render(m.Description))
	}
}
