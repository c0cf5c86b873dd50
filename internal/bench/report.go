package bench

import (
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// errWriter keeps the first write error and drops every later write.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(b)
	ew.err = err
	return n, err
}

// WriteText prints reports in the classic experiment layout.
func WriteText(w io.Writer, reports []Report) error {
	ew := &errWriter{w: w}
	p := message.NewPrinter(language.English)
	for i, r := range reports {
		if i == 0 {
			h := r.Host
			p.Fprintf(ew, "Host: %s/%s, %d CPUs, GOMAXPROCS %d, pool %d",
				h.GOOS, h.GOARCH, h.NumCPU, h.GOMAXPROCS, h.PoolSize)
			if len(h.Features) > 0 {
				p.Fprintf(ew, ", %s", strings.Join(h.Features, " "))
			}
			p.Fprintf(ew, "\n\n")
		}
		e := r.Experiment
		p.Fprintf(ew, "Multiply matrices of %s (%s)\n", e.Name, e.DType)
		p.Fprintf(ew, "Shapes: %dx%d * %dx%d, %d runs, seed %d\n", e.ARows, e.ACols, e.BRows, e.BCols, e.Runs, e.Seed)
		p.Fprintf(ew, "%-20s %12.2f ms\n", r.Sequential.Algorithm, r.Sequential.MeanMillis())
		p.Fprintf(ew, "%-20s %12.2f ms\n", r.Parallel.Algorithm, r.Parallel.MeanMillis())
		if r.Speedup > 0 {
			p.Fprintf(ew, "Parallel is %.2f times faster than sequential (%+.0f%%)\n", r.Speedup, r.SpeedupPercent)
		} else {
			p.Fprintf(ew, "Parallel run too fast to compare\n")
		}
		p.Fprintf(ew, "===== Experiment Over =====\n\n")
	}
	return ew.err
}

// WriteJSON writes reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteSweep prints one line per worker count, marking the fastest.
func WriteSweep(w io.Writer, exp Experiment, points []SweepPoint, best Tuned) error {
	ew := &errWriter{w: w}
	p := message.NewPrinter(language.English)
	p.Fprintf(ew, "Worker sweep: %s, %dx%d * %dx%d (%s)\n", exp.Algorithm, exp.ARows, exp.ACols, exp.BRows, exp.BCols, exp.DType)
	for _, pt := range points {
		mark := ""
		if pt.Workers == best.Workers {
			mark = " *"
		}
		p.Fprintf(ew, "%8d workers %12.2f ms %14.0f madd/s%s\n",
			pt.Workers, float64(pt.Mean)/float64(time.Millisecond), pt.Score, mark)
	}
	p.Fprintf(ew, "\n")
	return ew.err
}
