package capacity

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnitUnsupported marks a resource quantity whose unit could not be
// recognized. Callers must propagate it distinctly from a parsed zero so
// that the report never claims "0 available" for a value that was merely
// unreadable.
var ErrUnitUnsupported = errors.New("unsupported resource unit")

// binaryUnitsMB maps the base-1024 suffixes to their size in decimal
// megabytes per unit.
//
//nolint:gochecknoglobals
var binaryUnitsMB = map[string]float64{
	"Ki": float64(int64(1) << 10) / 1e6,
	"Mi": float64(int64(1) << 20) / 1e6,
	"Gi": float64(int64(1) << 30) / 1e6,
	"Ti": float64(int64(1) << 40) / 1e6,
	"Pi": float64(int64(1) << 50) / 1e6,
	"Ei": float64(int64(1) << 60) / 1e6,
}

// NormalizeMB converts a cluster-reported quantity into decimal megabytes.
// Recognized encodings: the binary suffixes Ki through Ei, a trailing "m"
// (nanounits of the base resource, divided by 1e9), and a bare integer
// (raw bytes, divided by 1e6). Anything else yields ErrUnitUnsupported,
// never a silent zero. A value of exactly "0" with a recognized unit is a
// legitimate zero.
func NormalizeMB(raw string) (float64, error) {
	if raw == "" {
		return 0, ErrUnitUnsupported
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(v) / 1e6, nil
	}

	if len(raw) > 2 {
		if mb, ok := binaryUnitsMB[raw[len(raw)-2:]]; ok {
			v, err := strconv.ParseInt(raw[:len(raw)-2], 10, 64)
			if err != nil {
				return 0, ErrUnitUnsupported
			}

			return float64(v) * mb, nil
		}
	}

	if strings.HasSuffix(raw, "m") {
		v, err := strconv.ParseInt(strings.TrimSuffix(raw, "m"), 10, 64)
		if err != nil {
			return 0, ErrUnitUnsupported
		}

		return float64(v) / 1e9, nil
	}

	return 0, ErrUnitUnsupported
}

// NormalizeCPUMilli converts a cluster-reported CPU quantity into
// milli-cores. A bare integer is whole cores, a trailing "m" is already
// milli-cores. Anything else yields ErrUnitUnsupported.
func NormalizeCPUMilli(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrUnitUnsupported
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v * 1000, nil
	}

	if strings.HasSuffix(raw, "m") {
		v, err := strconv.ParseInt(strings.TrimSuffix(raw, "m"), 10, 64)
		if err != nil {
			return 0, ErrUnitUnsupported
		}

		return v, nil
	}

	return 0, ErrUnitUnsupported
}
