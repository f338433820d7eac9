package store

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vjranagit/imurun/pkg/types"
)

// fieldsPerRow is the number of comma-separated fields in an ingestion row
const fieldsPerRow = types.NumChannels

// Load reads rows of "ts,ax,ay,az,wx,wy,wz" from r and appends them to s in
// order. It returns the number of samples appended.
//
// The first malformed row stops the load with a *types.ParseError. Samples
// appended before that row stay in the store. Blank lines are skipped rather
// than treated as malformed rows.
func Load(s *SampleStore, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	loaded := 0
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		sample, err := parseRow(text, line)
		if err != nil {
			return loaded, err
		}

		s.Append(sample)
		loaded++
	}

	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("failed to read samples: %w", err)
	}
	return loaded, nil
}

// LoadFile opens path (decompressing zstd input) and loads it into s
func LoadFile(s *SampleStore, path string) (int, error) {
	src, err := openSource(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	n, err := Load(s, src)
	if err != nil {
		return n, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return n, nil
}

// parseRow parses one ingestion row
func parseRow(text string, line int) (types.Sample, error) {
	fields := strings.Split(text, ",")
	if len(fields) != fieldsPerRow {
		return types.Sample{}, &types.ParseError{
			Line:  line,
			Field: -1,
			Err:   fmt.Errorf("expected %d fields, got %d", fieldsPerRow, len(fields)),
		}
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return types.Sample{}, &types.ParseError{Line: line, Field: 0, Err: err}
	}

	var vals [fieldsPerRow - 1]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return types.Sample{}, &types.ParseError{Line: line, Field: i + 1, Err: err}
		}
		vals[i] = v
	}

	return types.Sample{
		Timestamp: ts,
		AccelX:    vals[0],
		AccelY:    vals[1],
		AccelZ:    vals[2],
		GyroX:     vals[3],
		GyroY:     vals[4],
		GyroZ:     vals[5],
	}, nil
}
