package bench

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
)

// Host describes the machine a report was produced on.
type Host struct {
	GOOS       string   `json:"goos"`
	GOARCH     string   `json:"goarch"`
	NumCPU     int      `json:"num_cpu"`
	GOMAXPROCS int      `json:"gomaxprocs"`
	PoolSize   int      `json:"pool_size"`
	Features   []string `json:"features,omitempty"`
}

func CurrentHost() Host {
	return Host{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		PoolSize:   matmul.PoolSize(),
		Features:   cpuFeatures(runtime.GOARCH),
	}
}

type feature struct {
	name string
	ok   bool
}

func cpuFeatures(arch string) []string {
	var flags []feature
	switch arch {
	case "amd64", "386":
		flags = []feature{
			{"sse4.1", cpu.X86.HasSSE41},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
		}
	case "arm64":
		flags = []feature{
			{"asimd", cpu.ARM64.HasASIMD},
			{"fphp", cpu.ARM64.HasFPHP},
			{"sve", cpu.ARM64.HasSVE},
			{"sve2", cpu.ARM64.HasSVE2},
		}
	}
	var out []string
	for _, f := range flags {
		if f.ok {
			out = append(out, f.name)
		}
	}
	return out
}
