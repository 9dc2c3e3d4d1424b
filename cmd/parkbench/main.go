// Command parkbench drives qbench against every queue implementation this
// module ships: a native Go channel as a baseline, and each of the
// park-backed sync.Queue variants.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"github.com/twmb/parkinglot/bench/etime"
	"github.com/twmb/parkinglot/bench/qbench"
	"github.com/twmb/parkinglot/internal/parkmetrics"
	syncx "github.com/twmb/parkinglot/sync"
)

var log *zap.Logger

func main() {
	l, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	log = l
	defer log.Sync()

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal("parkbench failed", zap.Error(err))
	}
}

func newRootCmd() *cobra.Command {
	var (
		clockRate   int64
		messages    int
		queueSize   uint
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "parkbench",
		Short: "Benchmark park-backed queues against native Go channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(clockRate, messages, queueSize, metricsAddr)
		},
	}

	cmd.Flags().Int64Var(&clockRate, "clock-rate", 2600000000,
		"processor clock rate, used to convert TSC ticks to durations (cat /proc/cpuinfo | grep MHz)")
	cmd.Flags().IntVar(&messages, "messages", 1<<20,
		"count of messages to pass through every benchmark")
	cmd.Flags().UintVar(&queueSize, "queue-size", 2048,
		"capacity of every benchmarked queue, rounded up to a power of two")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"if set, serve Prometheus metrics on this address while benchmarking (e.g. :9090)")

	return cmd
}

func run(clockRate int64, messages int, queueSize uint, metricsAddr string) error {
	parkmetrics.Register()
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server exited", zap.Error(err))
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGHUP)
	quit := make(chan struct{})
	dead := make(chan struct{})

	log.Info("starting benchmarks", zap.Int("messages", messages), zap.Uint("queue_size", queueSize))
	go bench(quit, dead, clockRate, messages, queueSize)

	select {
	case <-stop:
		log.Info("stop intercepted, waiting for current benchmark to finish")
		close(quit)
		<-dead
	case <-dead:
		log.Info("benchmarks finished")
	}
	return nil
}

// chanQueue adapts a native Go channel to qbench.Interface, as a baseline
// to compare every park-backed queue against.
type chanQueue chan unsafe.Pointer

func (c chanQueue) Enqueue(p unsafe.Pointer) { c <- p }
func (c chanQueue) Dequeue() unsafe.Pointer  { return <-c }

func benchChan(cfg qbench.Cfg, queueSize uint) qbench.Results {
	cfg.Impl = chanQueue(make(chan unsafe.Pointer, queueSize))
	return qbench.Bench(cfg)
}

func benchMPMC(cfg qbench.Cfg, queueSize uint) qbench.Results {
	cfg.Impl = syncx.NewMPMC(queueSize)
	return qbench.Bench(cfg)
}

func benchMPSC(cfg qbench.Cfg, queueSize uint) qbench.Results {
	cfg.Impl = syncx.NewMPSC(queueSize)
	return qbench.Bench(cfg)
}

func benchSPMC(cfg qbench.Cfg, queueSize uint) qbench.Results {
	cfg.Impl = syncx.NewSPMC(queueSize)
	return qbench.Bench(cfg)
}

func benchSPSC(cfg qbench.Cfg, queueSize uint) qbench.Results {
	cfg.Impl = syncx.NewSPSC(queueSize)
	return qbench.Bench(cfg)
}

type int64s []int64

func (s int64s) Len() int           { return len(s) }
func (s int64s) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s int64s) Less(i, j int) bool { return s[i] < s[j] }

func avg(times []int64) time.Duration {
	var sum float64
	for _, t := range times {
		sum += float64(t)
	}
	return time.Duration(sum / float64(len(times)))
}

func processResults(impl string, clockRate int64, results qbench.Results) error {
	dur := func(d int64) time.Duration { return etime.Duration(d, clockRate) }

	for _, tt := range []struct {
		name    string
		timings [][]int64
	}{
		{"enq", results.EnqueueTimings},
		{"deq", results.DequeueTimings},
		{"thr", results.ThroughputTimings},
	} {
		var totLen int
		for _, timing := range tt.timings {
			totLen += len(timing)
		}
		all := make([]int64, 0, totLen)
		for _, timing := range tt.timings {
			all = append(all, timing...)
		}
		if len(all) == 0 {
			continue
		}
		sort.Sort(int64s(all))

		cut := int64(0.0001 * float64(len(all)))
		trimmed := all[cut : int64(len(all))-cut]

		log.Info("benchmark percentile",
			zap.String("impl", impl),
			zap.String("metric", tt.name),
			zap.Int("gomaxprocs", results.GOMAXPROCS),
			zap.Int("enqueuers", results.Enqueuers),
			zap.Int("dequeuers", results.Dequeuers),
			zap.Duration("min", dur(trimmed[0])),
			zap.Duration("median", dur(trimmed[len(trimmed)/2])),
			zap.Duration("max", dur(trimmed[len(trimmed)-1])),
			zap.Duration("avg", avg(trimmed)),
			zap.Duration("total", dur(results.TotalTiming)),
		)
	}
	return nil
}

func bench(quit, dead chan struct{}, clockRate int64, messages int, queueSize uint) {
	defer close(dead)

	// Prime the virtual memory space before timing anything.
	benchChan(qbench.Cfg{Enqueuers: 100, Dequeuers: 100, Messages: messages}, queueSize)

	for _, enqueuers := range []int{100, 10, 1} {
		for _, dequeuers := range []int{100, 10, 1} {
			for _, cpu := range []int{1, 8, 16, 24, 32} {
				select {
				case <-quit:
					log.Info("quitting early")
					return
				default:
				}
				runtime.GOMAXPROCS(cpu)
				cfg := qbench.Cfg{Enqueuers: enqueuers, Dequeuers: dequeuers, Messages: messages}

				runOne := func(impl string, f func(qbench.Cfg, uint) qbench.Results) {
					log.Info("running benchmark", zap.String("impl", impl),
						zap.Int("gomaxprocs", cpu), zap.Int("enqueuers", enqueuers),
						zap.Int("dequeuers", dequeuers))
					results := f(cfg, queueSize)
					if err := processResults(impl, clockRate, results); err != nil {
						log.Error("failed to process results", zap.Error(errors.Wrap(err, impl)))
					}
					runtime.GC()
				}

				runOne("chan", benchChan)
				runOne("mpmc", benchMPMC)
				if enqueuers == 1 {
					runOne("spmc", benchSPMC)
				}
				if dequeuers == 1 {
					runOne("mpsc", benchMPSC)
				}
				if enqueuers == 1 && dequeuers == 1 {
					runOne("spsc", benchSPSC)
				}
			}
		}
	}
}
