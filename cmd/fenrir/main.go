// Command fenrir drives the matching engine through its simulation,
// benchmark and reporting workflows:
//
//	fenrir sim     run a seeded simulation, write CSV artifacts + snapshot
//	fenrir bench   high-volume run, latency summary only
//	fenrir replay  rebuild a book from a journal directory
//	fenrir report  render PNG charts from a results directory
//	fenrir tail    follow the Kafka trade topic
//
// Broker settings come from flags or a .env file (FENRIR_BROKERS,
// FENRIR_TOPIC).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fenrir/domain/book"
	"fenrir/infra/feed"
	"fenrir/infra/journal"
	"fenrir/infra/logging"
	"fenrir/infra/outbox"
	"fenrir/jobs/broadcaster"
	"fenrir/metrics"
	"fenrir/report"
	"fenrir/service"
	"fenrir/sim"
	"fenrir/snapshot"
)

func main() {
	// Missing .env is fine; flags win over environment either way.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "sim":
		err = runSim(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "replay":
		err = runReplay(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "tail":
		err = runTail(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "fenrir:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fenrir <sim|bench|replay|report|tail> [flags]")
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func simFlags(fs *flag.FlagSet, cfg *sim.Config) {
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Events, "events", cfg.Events, "number of events")
	fs.Float64Var(&cfg.PLimit, "p-limit", cfg.PLimit, "limit order probability")
	fs.Float64Var(&cfg.PMarket, "p-market", cfg.PMarket, "market order probability")
	fs.Float64Var(&cfg.PCancel, "p-cancel", cfg.PCancel, "cancel probability")
	fs.Float64Var(&cfg.PReplace, "p-replace", cfg.PReplace, "replace probability")
	fs.Int64Var(&cfg.Mid0Ticks, "mid", cfg.Mid0Ticks, "initial mid price in ticks")
	fs.Float64Var(&cfg.SigmaTicks, "sigma-ticks", cfg.SigmaTicks, "limit price sigma in ticks")
	fs.Float64Var(&cfg.DriftPer1K, "drift-per-1k", cfg.DriftPer1K, "mid drift in ticks per 1k events")
	fs.Float64Var(&cfg.SizeMean, "size-mean", cfg.SizeMean, "mean order size")
	fs.Int64Var(&cfg.SizeMin, "size-min", cfg.SizeMin, "minimum order size")
	fs.Float64Var(&cfg.PIOC, "p-ioc", cfg.PIOC, "IOC probability among limits")
	fs.Float64Var(&cfg.PFOK, "p-fok", cfg.PFOK, "FOK probability among limits")
	fs.IntVar(&cfg.SnapshotEvery, "snapshot-every", cfg.SnapshotEvery, "events between L1 snapshots")
}

func runSim(args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	cfg := sim.DefaultConfig()
	cfg.Events = 200_000
	simFlags(fs, &cfg)
	out := fs.String("out", "results", "artifact directory")
	journalOn := fs.Bool("journal", true, "journal accepted events under <out>/journal")
	brokers := fs.String("brokers", envDefault("FENRIR_BROKERS", ""), "Kafka brokers (comma separated); empty disables publishing")
	topic := fs.String("topic", envDefault("FENRIR_TOPIC", "fenrir.trades"), "Kafka trade topic")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logging.NewWithFile(filepath.Join(*out, "sim.log"))
	if err != nil {
		return err
	}
	defer log.Sync()

	eng := book.NewEngine()
	var opts []service.Option

	if *journalOn {
		jrn, err := journal.Open(filepath.Join(*out, "journal"))
		if err != nil {
			return err
		}
		defer jrn.Close()
		opts = append(opts, service.WithJournal(jrn))
	}

	var box *outbox.Outbox
	if *brokers != "" {
		box, err = outbox.Open(filepath.Join(*out, "outbox"))
		if err != nil {
			return err
		}
		defer box.Close()
		opts = append(opts, service.WithOutbox(box))
	}

	x := service.New(eng, log, opts...)
	art, err := sim.New(cfg, x, log).Run()
	if err != nil {
		return err
	}

	files, err := sim.SaveArtifacts(art, *out)
	if err != nil {
		return err
	}
	if err := (&snapshot.Writer{Dir: *out}).Write(eng); err != nil {
		return err
	}
	files["snapshot_bin"] = filepath.Join(*out, "snapshot.bin")

	if box != nil {
		bc, err := broadcaster.New(box, strings.Split(*brokers, ","), *topic, time.Second, log)
		if err != nil {
			return err
		}
		bc.DrainOnce()
		if err := bc.Close(); err != nil {
			return err
		}
	}

	return printJSON(map[string]any{
		"saved":           files,
		"latency_summary": metrics.SummarizeLatency(art.LatenciesNs),
		"orders":          art.Orders,
		"trades":          len(art.Trades),
		"cancels":         art.Cancels,
		"replaces":        art.Replaces,
		"killed":          art.Killed,
	})
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	cfg := sim.DefaultConfig()
	cfg.Events = 300_000
	seed := fs.Int64("seed", cfg.Seed, "random seed")
	events := fs.Int("events", cfg.Events, "number of events")
	out := fs.String("out", "results", "artifact directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Seed = *seed
	cfg.Events = *events
	cfg.SnapshotEvery = max(*events/50, 1)

	log, err := logging.New()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Bare engine: the benchmark measures matching, not journaling.
	x := service.New(book.NewEngine(), log)
	art, err := sim.New(cfg, x, log).Run()
	if err != nil {
		return err
	}

	summary := metrics.SummarizeLatency(art.LatenciesNs)
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	csvPath := filepath.Join(*out, "benchmark_summary.csv")
	if err := writeBenchCSV(csvPath, summary); err != nil {
		return err
	}
	return printJSON(map[string]any{"benchmark": summary, "csv": csvPath})
}

func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	dir := fs.String("journal", "results/journal", "journal directory")
	depth := fs.Int("depth", 5, "L1 depth levels to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logging.New()
	if err != nil {
		return err
	}
	defer log.Sync()

	eng := book.NewEngine()
	stats, err := service.Replay(*dir, eng)
	if err != nil {
		return err
	}
	log.Info("journal replayed",
		zap.Int("submits", stats.Submits),
		zap.Int("cancels", stats.Cancels),
		zap.Int("replaces", stats.Replaces),
		zap.Int("trades", stats.Trades))

	return printJSON(map[string]any{
		"replay": stats,
		"l1":     eng.L1(*depth),
	})
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dir := fs.String("dir", "results", "results directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snapsPath, err := report.Latest(*dir, "snapshots_")
	if err != nil {
		return err
	}
	rows, err := report.LoadSnapshots(snapsPath)
	if err != nil {
		return err
	}
	figures, err := report.PlotSeries(metrics.FromSnapshots(rows), *dir)
	if err != nil {
		return err
	}

	latPath, err := report.Latest(*dir, "latencies_")
	if err != nil {
		return err
	}
	ns, err := report.LoadLatencies(latPath)
	if err != nil {
		return err
	}
	histPath, err := report.PlotLatencyHist(ns, *dir)
	if err != nil {
		return err
	}
	figures["latency_hist"] = histPath

	return printJSON(map[string]any{
		"figures":         figures,
		"latency_summary": metrics.SummarizeLatency(ns),
	})
}

func runTail(args []string) error {
	fs := flag.NewFlagSet("tail", flag.ExitOnError)
	brokers := fs.String("brokers", envDefault("FENRIR_BROKERS", "localhost:9092"), "Kafka brokers (comma separated)")
	topic := fs.String("topic", envDefault("FENRIR_TOPIC", "fenrir.trades"), "Kafka trade topic")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := feed.NewTailer(strings.Split(*brokers, ","), *topic)
	defer t.Close()

	err := t.Tail(ctx, func(ev feed.TradeEvent) error {
		return printJSON(ev)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func writeBenchCSV(path string, s metrics.LatencySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "p50_ns,p90_ns,p99_ns,mean_ns,ops_per_sec,samples\n%.1f,%.1f,%.1f,%.1f,%.1f,%d\n",
		s.P50Ns, s.P90Ns, s.P99Ns, s.MeanNs, s.OpsPerSec, s.Samples)
	return err
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
