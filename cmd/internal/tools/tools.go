package tools

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/blockcodes/benchmarking"
	"github.com/nathanhack/blockcodes/factory"
	"github.com/nathanhack/blockcodes/linearblock"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type SimulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[float64]benchmarking.Stats
}
type simulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[string]benchmarking.Stats
}

func (s *SimulationStats) MarshalJSON() ([]byte, error) {
	ss := simulationStats{
		TypeInfo: s.TypeInfo,
		ECCInfo:  s.ECCInfo,
		Stats:    map[string]benchmarking.Stats{},
	}

	for f, stat := range s.Stats {
		ss.Stats[fmt.Sprintf("%v", f)] = stat
	}

	return json.Marshal(ss)
}

func (s *SimulationStats) UnmarshalJSON(bytes []byte) error {
	var ss simulationStats

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.TypeInfo = ss.TypeInfo
	s.ECCInfo = ss.ECCInfo
	s.Stats = map[float64]benchmarking.Stats{}

	for fs, stat := range ss.Stats {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Stats[f] = stat
	}
	return nil
}

//Md5Sum identifies the code a results file was made with, threads don't change the code so they are left out.
func Md5Sum(spec factory.Spec) (string, error) {
	spec.Threads = 0
	bs, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("error serializing %v: %w", spec, err)
	}
	return fmt.Sprintf("%x", md5.Sum(bs)), nil
}

//SignalContext is canceled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		fmt.Println()
		fmt.Println(sig)
		cancel()
	}()
	return ctx
}

//SetVerbose switches logrus to debug, which also turns on the construction progress bars.
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

//LoadCode reads a code spec file and builds the code.
func LoadCode(ctx context.Context, filepath string) (factory.Spec, linearblock.Code, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return factory.Spec{}, nil, fmt.Errorf("the CODE_JSON file %v must exist", filepath)
	}

	spec, err := factory.Load(filepath)
	if err != nil {
		return spec, nil, err
	}

	code, err := factory.Make(ctx, spec)
	if err != nil {
		return spec, nil, fmt.Errorf("unable to make %v: %w", spec, err)
	}
	return spec, code, nil
}

//LoadResults returns nil when the file does not exist yet.
func LoadResults(filepath string) (*SimulationStats, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, nil
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var stat SimulationStats
	err = json.Unmarshal(bs, &stat)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return &stat, nil
}

func SaveResults(filepath string, data *SimulationStats) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}

// OpenResults loads the results file, or starts a new one, and checks it was
// made by the same simulation typeInfo against the same code.
func OpenResults(filepath, typeInfo string, spec factory.Spec) (*SimulationStats, error) {
	data, err := LoadResults(filepath)
	if err != nil {
		return nil, err
	}
	sum, err := Md5Sum(spec)
	if err != nil {
		return nil, err
	}

	//if data is nil then we create it
	if data == nil {
		data = &SimulationStats{
			TypeInfo: typeInfo,
			ECCInfo:  sum,
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	//in either case lets validate it
	if data.TypeInfo != typeInfo {
		return nil, fmt.Errorf("results loaded do not match the same type expected %v but found %v", typeInfo, data.TypeInfo)
	}
	if data.ECCInfo != sum {
		return nil, fmt.Errorf("results loaded do not match the code %v", spec)
	}
	return data, nil
}

//RunPoint runs one simulation point (a crossover probability, an Eb/N0...) continuing from previous.
type RunPoint func(ctx context.Context, point float64, trials int, previous benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats

// Simulate grows every point of data to trials in rounds of threads*10 trials,
// saving to outputFilename as it goes so an interrupted run can be continued.
func Simulate(ctx context.Context, data *SimulationStats, points []float64, trials, threads int, run RunPoint, outputFilename string) {
	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	trialsPerIter := threads * 10
	bar := pb.StartNew(trials * len(points))
trialLoops:
	for t := trialsPerIter; ; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}

		for _, p := range points {
			point := p
			checkpoint := func(stats benchmarking.Stats) {
				//we want to save the checkpoint
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[point] = stats

				if checkpointCount%trialsPerIter == 0 {
					err := SaveResults(outputFilename, data)
					if err != nil {
						fmt.Println(err)
					}
				}
				checkpointCount++
			}
			before := data.Stats[point].MessageError.Count
			data.Stats[point] = run(ctx, point, min(t, trials), data.Stats[point], checkpoint)
			bar.Add(data.Stats[point].MessageError.Count - before)
		}

		if t >= trials {
			break
		}
	}
	bar.Finish()
}

//Metric names one of the benchmarking.Stats fields.
type Metric string

const (
	MessageError  Metric = "message"
	BlockError    Metric = "block"
	Uncorrectable Metric = "uncorrectable"
)

//Mean returns the mean of metric in stats.
func (m Metric) Mean(stats benchmarking.Stats) (float64, error) {
	switch m {
	case MessageError:
		return stats.MessageError.Mean, nil
	case BlockError:
		return stats.BlockError.Mean, nil
	case Uncorrectable:
		return stats.Uncorrectable.Mean, nil
	}
	return 0, fmt.Errorf("unknown metric %q, expected one of %v, %v or %v", m, MessageError, BlockError, Uncorrectable)
}

//LoadAllResults loads every results file and the sorted set of points found in them.
func LoadAllResults(filepaths []string) ([]*SimulationStats, []float64, error) {
	stats := make([]*SimulationStats, len(filepaths))
	points := make(map[float64]bool)
	for i, resultFile := range filepaths {
		s, err := LoadResults(resultFile)
		if err != nil {
			return nil, nil, err
		}
		if s == nil {
			return nil, nil, fmt.Errorf("results file %v does not exist", resultFile)
		}
		stats[i] = s
		for p := range s.Stats {
			points[p] = true
		}
	}

	sorted := maps.Keys(points)
	slices.Sort(sorted)
	return stats, sorted, nil
}
