// Package fixtures generates synthetic qualifying extracts in the layout the
// pipeline ingests. Output is deterministic for a given Config.
package fixtures

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/okian/quali/internal/domain/model"
	"github.com/okian/quali/pkg/logger"
)

// Session cut-offs as fractions of the grid.
const (
	q2Share = 0.75
	q3Share = 0.5
)

// Pace model in seconds.
const (
	basePace     = 80.0
	skillSpread  = 2.0
	sessionNoise = 0.4
	sessionGain  = 0.3
)

// ErrInvalidConfig is returned for a Config that cannot produce any rows.
var ErrInvalidConfig = errors.New("invalid fixture config")

type entrant struct {
	number int
	name   string
	skill  float64
}

// Generate writes one extract per configured year into cfg.Dir.
func Generate(ctx context.Context, cfg *Config, log logger.Logger) (Stats, error) {
	if len(cfg.Years) == 0 || cfg.Events < 1 || cfg.Teams < 1 {
		return Stats{}, fmt.Errorf("%w: need years, events and teams", ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, year := range cfg.Years {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rows, swapped := season(cfg, year)
		path, err := writeExtract(cfg, year, rows)
		if err != nil {
			return stats, fmt.Errorf("write %d: %w", year, err)
		}
		stats.Files++
		stats.Rows += len(rows)
		if swapped {
			stats.Swaps++
		}
		log.Info(ctx, "generated season",
			logger.Int("year", year),
			logger.Int("rows", len(rows)),
			logger.Bool("swap", swapped),
			logger.String("file", path),
		)
	}
	return stats, nil
}

// season builds the rows of one year. When a swap happens, the first drivers
// of the first two teams trade seats halfway through the season.
func season(cfg *Config, year int) ([][]string, bool) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(year)))

	grid := make([]entrant, 2*cfg.Teams)
	seat := make([]int, len(grid))
	for i := range grid {
		grid[i] = entrant{
			number: i + 1,
			name:   fmt.Sprintf("D%02d DRIVER", i+1),
			skill:  rng.Float64() * skillSpread,
		}
		seat[i] = i / 2
	}

	swapAt := -1
	if cfg.Teams > 1 && rng.Float64() < cfg.SwapRate {
		swapAt = cfg.Events / 2
	}

	var rows [][]string
	for ev := 0; ev < cfg.Events; ev++ {
		if ev == swapAt && swapAt > 0 {
			seat[0], seat[2] = seat[2], seat[0]
		}
		event := fmt.Sprintf("Round %02d Grand Prix", ev+1)
		wet := rng.Float64() < cfg.WetRate

		type result struct {
			idx        int
			q1, q2, q3 float64
		}
		results := make([]result, len(grid))
		for i, e := range grid {
			q1 := basePace + e.skill + rng.NormFloat64()*sessionNoise
			results[i] = result{
				idx: i,
				q1:  q1,
				q2:  q1 - sessionGain + rng.NormFloat64()*sessionNoise/2,
				q3:  q1 - 2*sessionGain + rng.NormFloat64()*sessionNoise/2,
			}
		}
		sort.SliceStable(results, func(a, b int) bool { return results[a].q1 < results[b].q1 })

		q2Cut := int(float64(len(grid))*q2Share + 0.5)
		q3Cut := int(float64(len(grid))*q3Share + 0.5)
		for pos, r := range results {
			e := grid[r.idx]
			q1 := clock(r.q1)
			q2, q3 := "", ""
			if pos < q2Cut {
				q2 = clock(r.q2)
			}
			if pos < q3Cut {
				q3 = clock(r.q3)
			}
			if rng.Float64() < cfg.MissingRate {
				q3 = ""
			}
			if rng.Float64() < cfg.MissingRate {
				q2 = ""
			}
			rows = append(rows, []string{
				strconv.Itoa(e.number),
				e.name,
				fmt.Sprintf("Team %02d", seat[r.idx]+1),
				strconv.Itoa(pos + 1),
				q1, q2, q3,
				strconv.Itoa(year),
				event,
				strconv.FormatBool(wet),
			})
		}
	}
	return rows, swapAt > 0
}

// clock renders seconds the way a timedelta column is exported.
func clock(sec float64) string {
	m := int(sec) / 60
	s := sec - float64(m*60)
	return fmt.Sprintf("0 days 00:%02d:%09.6f", m, s)
}

func writeExtract(cfg *Config, year int, rows [][]string) (string, error) {
	ext, comma := ".csv", ','
	if cfg.TSV {
		ext, comma = ".tsv", '\t'
	}
	path := filepath.Join(cfg.Dir, strconv.Itoa(year)+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(model.RequiredColumns); err != nil {
		f.Close()
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
