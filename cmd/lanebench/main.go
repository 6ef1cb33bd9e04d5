package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WhiteTshirtXI/lbswim"
	"github.com/WhiteTshirtXI/lbswim/gpu"
	"github.com/WhiteTshirtXI/lbswim/internal/cpu"
	"github.com/WhiteTshirtXI/lbswim/target"
)

type benchResult struct {
	backend string
	lanes   int
	nsPerOp float64
}

func main() {
	var (
		shapeList = flag.String("shape", "64,64", "comma-separated lattice extent")
		fields    = flag.Int("fields", 9, "field components per site")
		laneList  = flag.String("lanes", "1,2,4,8", "comma-separated lane widths (powers of two)")
		backends  = flag.String("backend", "all", "backend: host, threads, device, all")
		workers   = flag.Int("workers", 0, "threads backend workers (0 = GOMAXPROCS)")
		iters     = flag.Int("iters", 50, "benchmark iterations")
		warmup    = flag.Int("warmup", 5, "warmup iterations")
		mirror    = flag.Bool("mirror", false, "sync the array to a mock device after every iteration")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	gpu.SetLogger(logger)

	shape := lbswim.Shape(parseInts(*shapeList))
	if len(shape) == 0 {
		fmt.Println("no shape specified")
		return
	}

	lanes := parseInts(*laneList)
	if len(lanes) == 0 {
		fmt.Println("no lane widths specified")
		return
	}
	sort.Ints(lanes)
	if err := checkLanes(lanes); err != nil {
		fmt.Println(err)
		return
	}

	features := cpu.Detected()
	logger.Info("cpu features",
		zap.String("arch", features.Architecture),
		zap.Stringer("simd", features),
		zap.Int("default_lanes_f64", features.LanesFor(8)))

	var dev gpu.Context
	if *mirror {
		gpu.RegisterMockBackend()
		ctx, err := gpu.Open(gpu.Options{})
		if err != nil {
			fmt.Printf("open device: %v\n", err)
			return
		}
		defer func() { _ = ctx.Close() }()
		dev = ctx
	}

	fmt.Printf("shape=%v fields=%d iters=%d warmup=%d\n", shape, *fields, *iters, *warmup)
	fmt.Printf("%10s  %6s  %12s\n", "backend", "lanes", "ns/op")

	var results []benchResult
	for _, b := range resolveBackends(*backends, *workers, logger) {
		for _, vl := range lanes {
			res, err := benchmark(b, shape, *fields, vl, lanes[len(lanes)-1], *iters, *warmup, dev)
			if err != nil {
				logger.Error("benchmark failed", zap.String("backend", b.Name()), zap.Int("lanes", vl), zap.Error(err))
				continue
			}
			results = append(results, res)
			fmt.Printf("%10s  %6d  %12.1f\n", res.backend, res.lanes, res.nsPerOp)
		}
	}

	if len(results) == 0 {
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].nsPerOp < results[j].nsPerOp
	})
	fmt.Printf("\nfastest: %s with %d lanes (%.1f ns/op)\n", results[0].backend, results[0].lanes, results[0].nsPerOp)
}

// checkLanes rejects lane widths that cannot pad an array. The widest one
// becomes the arrays' max lane width.
func checkLanes(lanes []int) error {
	for _, vl := range lanes {
		if !cpu.IsPow2(vl) {
			return fmt.Errorf("lane width %d is not a power of two", vl)
		}
	}

	return nil
}

func benchmark(b target.Backend, shape lbswim.Shape, fields, vl, maxLanes, iters, warmup int, dev gpu.Context) (benchResult, error) {
	if !cpu.IsPow2(vl) {
		return benchResult{}, fmt.Errorf("lane width %d is not a power of two", vl)
	}

	arr, err := lbswim.New[float64](shape, fields, lbswim.WithMaxLanes(maxLanes))
	if err != nil {
		return benchResult{}, err
	}
	defer func() { _ = arr.Close() }()

	for i := range arr.Raw() {
		arr.Raw()[i] = float64(i%fields) + 1
	}

	var shared *gpu.SharedArray[float64]
	if dev != nil {
		shared, err = gpu.NewSharedArray(dev, arr)
		if err != nil {
			return benchResult{}, err
		}
		defer func() { _ = shared.Close() }()
	}

	k := target.NewKernel(relax{arr: *arr, omega: 0.6}, shape, vl)
	ctx := context.Background()

	step := func() error {
		if err := target.Launch(ctx, b, k); err != nil {
			return err
		}
		if shared != nil {
			return shared.SyncToDevice()
		}
		return nil
	}

	for range warmup {
		if err := step(); err != nil {
			return benchResult{}, err
		}
	}

	runtime.GC()

	start := time.Now()
	for range iters {
		if err := step(); err != nil {
			return benchResult{}, err
		}
	}
	elapsed := time.Since(start)

	return benchResult{
		backend: b.Name(),
		lanes:   vl,
		nsPerOp: float64(elapsed.Nanoseconds()) / float64(max(iters, 1)),
	}, nil
}

// relax moves every site's field vector towards its mean.
type relax struct {
	arr   lbswim.Array[float64]
	omega float64
}

func (r relax) Run(lc target.LaneContext) error {
	v, err := target.Lanes(lc, r.arr)
	if err != nil {
		return err
	}

	nElem := r.arr.NElem()
	for l := range v.Len() {
		if !lc.Valid(l) {
			continue
		}

		rho := 0.0
		for f := range nElem {
			rho += v.At(l, f)
		}

		eq := rho / float64(nElem)
		for f := range nElem {
			p := v.Ptr(l, f)
			*p += r.omega * (eq - *p)
		}
	}

	return nil
}

func resolveBackends(name string, workers int, logger *zap.Logger) []target.Backend {
	threads := target.NewThreads(workers, target.WithLogger(logger))

	switch name {
	case "host":
		return []target.Backend{target.Host{}}
	case "threads":
		return []target.Backend{threads}
	case "device":
		return []target.Backend{target.Device{}}
	default:
		return []target.Backend{target.Host{}, threads, target.Device{}}
	}
}

func parseInts(list string) []int {
	parts := strings.Split(list, ",")

	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var n int

		_, err := fmt.Sscanf(part, "%d", &n)
		if err != nil || n <= 0 {
			continue
		}

		out = append(out, n)
	}

	return out
}
