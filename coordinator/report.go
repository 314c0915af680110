package coordinator

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/stat"
)

// Report pretty-prints the current aggregate for (color, year, month) to w,
// in the teacher's tabwriter style (cli/tablewriter.go uses the same
// stdlib package for its own plain-text tables).
func (c *Coordinator) Report(w io.Writer, color string, year, month int) error {
	s, err := c.Store.Get(color, year, month)
	if err != nil {
		return cmn.NewErrIO("load report row", err)
	}
	if s == nil {
		fmt.Fprintf(w, "no results yet for %s %d-%02d\n", color, year, month)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "taxistat report\t%s %d-%02d\n", color, year, month)
	fmt.Fprintf(tw, "records\t%d total, %d invalid\n", s.Total, s.Invalid)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "borough\tpickups\tdropoffs")
	for b := cmn.Manhattan; b <= cmn.StatenIsland; b++ {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", b, s.BoroughPickups[int(b)], s.BoroughDropoffs[int(b)])
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "hour\tpickups")
	for h := 0; h < 24; h++ {
		fmt.Fprintf(tw, "%02d:00\t%d\n", h, s.Hour[h])
	}
	fmt.Fprintln(tw)

	printBuckets(tw, "distance (mi)", stat.DistanceBuckets, s.Distance)
	printBuckets(tw, "trip time (s)", stat.TripTimeBuckets, s.TripTime)
	printBuckets(tw, "fare ($)", stat.FareBuckets, s.Fare)

	return tw.Flush()
}

func printBuckets(w io.Writer, label string, bs []int, counts map[int]int64) {
	fmt.Fprintf(w, "%s\tcount\n", label)
	keys := make([]int, 0, len(bs))
	keys = append(keys, bs...)
	sort.Ints(keys)
	for _, b := range keys {
		fmt.Fprintf(w, ">= %d\t%d\n", b, counts[b])
	}
	fmt.Fprintln(w)
}
