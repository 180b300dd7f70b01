package sim

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SaveArtifacts writes the trade tape, snapshot series and latency samples
// as timestamped CSVs under dir, returning the logical-name → path map.
func SaveArtifacts(art Artifacts, dir string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	stamp := time.Now().UTC().Format("20060102_150405")
	files := make(map[string]string, 3)

	tradesPath := filepath.Join(dir, "trades_"+stamp+".csv")
	if err := writeTrades(tradesPath, art); err != nil {
		return nil, err
	}
	files["trades_csv"] = tradesPath

	snapsPath := filepath.Join(dir, "snapshots_"+stamp+".csv")
	if err := writeSnapshots(snapsPath, art); err != nil {
		return nil, err
	}
	files["snapshots_csv"] = snapsPath

	latPath := filepath.Join(dir, "latencies_"+stamp+".csv")
	if err := writeLatencies(latPath, art); err != nil {
		return nil, err
	}
	files["latencies_csv"] = latPath

	return files, nil
}

func writeTrades(path string, art Artifacts) error {
	return writeCSV(path, []string{"seq", "price", "qty", "maker_id", "taker_id", "taker_side"},
		len(art.Trades), func(i int) []string {
			t := art.Trades[i]
			return []string{
				strconv.FormatUint(t.Seq, 10),
				strconv.FormatInt(t.Price, 10),
				strconv.FormatInt(t.Qty, 10),
				strconv.FormatUint(t.MakerID, 10),
				strconv.FormatUint(t.TakerID, 10),
				t.TakerSide.String(),
			}
		})
}

func writeSnapshots(path string, art Artifacts) error {
	return writeCSV(path, []string{"event", "best_bid", "best_ask", "bid_depth", "ask_depth"},
		len(art.Snapshots), func(i int) []string {
			r := art.Snapshots[i]
			bid, ask := "", ""
			if r.HasBid {
				bid = strconv.FormatInt(r.BestBid, 10)
			}
			if r.HasAsk {
				ask = strconv.FormatInt(r.BestAsk, 10)
			}
			return []string{
				strconv.FormatInt(r.Event, 10),
				bid,
				ask,
				strconv.FormatInt(r.BidDepth, 10),
				strconv.FormatInt(r.AskDepth, 10),
			}
		})
}

func writeLatencies(path string, art Artifacts) error {
	return writeCSV(path, []string{"latency_ns"}, len(art.LatenciesNs), func(i int) []string {
		return []string{strconv.FormatInt(art.LatenciesNs[i], 10)}
	})
}

func writeCSV(path string, header []string, rows int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
