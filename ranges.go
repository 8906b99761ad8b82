package dirshare

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRange parses the single-range subset of RFC 7233:
// "bytes=<start>-<end>" with an optional end, against a resource of the
// given size. An empty end means "to end of file"; a present end is
// clamped to size-1. The bounds are inclusive.
//
// Anything outside that subset (missing "bytes=" prefix, non-numeric
// bounds, multi-range lists, start past the end of file) yields
// ErrMalformedRange; callers respond with the full file at 200 rather
// than an error.
func ParseRange(header string, size int64) (RangeSpec, error) {
	if size <= 0 {
		return RangeSpec{}, fmt.Errorf("%w: empty resource", ErrMalformedRange)
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok || strings.Contains(endStr, ",") {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}

	start, err := strconv.ParseUint(strings.TrimSpace(startStr), 10, 63)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}

	end := uint64(size - 1)
	if s := strings.TrimSpace(endStr); s != "" {
		end, err = strconv.ParseUint(s, 10, 63)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
		}
		if end > uint64(size-1) {
			end = uint64(size - 1)
		}
	}

	if start > end {
		return RangeSpec{}, fmt.Errorf("%w: %q", ErrMalformedRange, header)
	}
	return RangeSpec{Start: start, End: end}, nil
}
