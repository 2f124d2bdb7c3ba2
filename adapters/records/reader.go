package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"recoverystats/domain/core"
	"recoverystats/domain/experiment"
	"recoverystats/internal"
)

// FieldsPerRecord is the number of comma separated fields on every line:
// name, run index, recovery time, succeeded, costs, lexemes, lexemes skipped.
const FieldsPerRecord = 7

const maxLineBytes = 64 << 20

// Stats summarises one ingested file
type Stats struct {
	Lines     int // non-blank lines read
	Records   int // observations handed to the core
	Anomalies int // records dropped as data anomalies
	RunCount  int // largest run index plus one
	Digest    core.Hash
}

// Reader turns per-run record files into observations
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a record reader
func NewReader(logger *internal.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadFile reads every record of one experiment's result file
func (r *Reader) ReadFile(path string, tracksCosts bool) ([]experiment.Observation, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	digest := core.NewHasher()
	obs, stats, err := r.Read(io.TeeReader(file, digest), tracksCosts)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	stats.Digest = core.HashOf(digest)
	r.logger.Debug("[records] %s read in %.2fms (%d records, %d anomalies)",
		path, float64(time.Since(start).Nanoseconds())/1e6, stats.Records, stats.Anomalies)
	return obs, stats, nil
}

// Load implements ports.RecordSource
func (r *Reader) Load(path string, tracksCosts bool) ([]experiment.Observation, core.Hash, error) {
	obs, stats, err := r.ReadFile(path, tracksCosts)
	if err != nil {
		return nil, "", err
	}
	r.logger.Info("[records] %s: %d records over %d runs (sha256 %s)",
		path, stats.Records, stats.RunCount, stats.Digest.Short())
	return obs, stats.Digest, nil
}

// Read parses records from src. Malformed lines abort ingestion; anomalous
// but well formed records are logged and dropped.
func (r *Reader) Read(src io.Reader, tracksCosts bool) ([]experiment.Observation, Stats, error) {
	var (
		out   []experiment.Observation
		stats Stats
	)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Lines++

		record, err := ParseLine(line, lineNo)
		if err != nil {
			return nil, stats, err
		}
		obs, err := experiment.NewObservation(record)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := obs.CheckAnomaly(tracksCosts); err != nil {
			if errors.Is(err, core.ErrDataAnomaly) {
				r.logger.Warn("%v", err)
				stats.Anomalies++
				continue
			}
			return nil, stats, err
		}

		if obs.RunIndex()+1 > stats.RunCount {
			stats.RunCount = obs.RunIndex() + 1
		}
		out = append(out, obs)
		stats.Records++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read records: %w", err)
	}

	return out, stats, nil
}

// ParseLine parses one non-blank record line
func ParseLine(line string, lineNo int) (experiment.Record, error) {
	fields := strings.Split(line, ",")
	if len(fields) != FieldsPerRecord {
		return experiment.Record{}, core.NewInvalidRecordError(lineNo,
			fmt.Sprintf("expected %d fields, got %d", FieldsPerRecord, len(fields)))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	runIndex, err := strconv.Atoi(fields[1])
	if err != nil {
		return experiment.Record{}, core.NewInvalidRecordError(lineNo, "run index: "+err.Error())
	}
	recoveryTime, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return experiment.Record{}, core.NewInvalidRecordError(lineNo, "recovery time: "+err.Error())
	}

	var succeeded bool
	switch fields[3] {
	case "1":
		succeeded = true
	case "0":
		succeeded = false
	default:
		return experiment.Record{}, core.NewInvalidRecordError(lineNo, fmt.Sprintf("succeeded must be 0 or 1, got %q", fields[3]))
	}

	var costs []int
	for _, c := range strings.Split(fields[4], ":") {
		if c == "" {
			continue
		}
		cost, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return experiment.Record{}, core.NewInvalidRecordError(lineNo, "cost: "+err.Error())
		}
		costs = append(costs, cost)
	}

	lexemes, err := strconv.Atoi(fields[5])
	if err != nil {
		return experiment.Record{}, core.NewInvalidRecordError(lineNo, "lexemes: "+err.Error())
	}
	skipped, err := strconv.Atoi(fields[6])
	if err != nil {
		return experiment.Record{}, core.NewInvalidRecordError(lineNo, "lexemes skipped: "+err.Error())
	}

	return experiment.Record{
		SampleName:     fields[0],
		RunIndex:       runIndex,
		RecoveryTime:   recoveryTime,
		Succeeded:      succeeded,
		ErrorCosts:     costs,
		LexemesTotal:   lexemes,
		LexemesSkipped: skipped,
	}, nil
}
