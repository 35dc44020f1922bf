package framespec

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame is one expanded framespec entry: the frame number and its rendered
// text with padding applied.
type Frame struct {
	Value int
	Text  string
}

// Expand converts a framespec string into the ordered frames it denotes.
//
// Segments are comma separated; each is a bare integer, "start-end", or
// "start-end" plus the step delimiter and a step. Output follows source
// order across segments and is ascending within each segment; segments are
// not re-sorted or de-duplicated against each other.
//
// Rendered text is zero-padded to the configured padding width, or to the
// natural width of each value when no padding is configured. The sign of a
// negative value sits in front of the padded digits.
func (c *Codec) Expand(spec string) ([]Frame, error) {
	var frames []Frame

	for _, segment := range strings.Split(spec, ",") {
		m := c.segmentPat.FindStringSubmatch(segment)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, segment)
		}

		start, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, segment)
		}

		// Bare integer: a singleton
		if m[2] == "" {
			frames = append(frames, Frame{Value: start, Text: c.render(start)})
			continue
		}

		end, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRange, segment)
		}

		step := 1
		if m[3] != "" {
			step, err = strconv.Atoi(m[3])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedRange, segment)
			}
		}

		if step <= 0 {
			return nil, fmt.Errorf("%w: %q has step %d", ErrMalformedRange, segment, step)
		}
		if end < start {
			return nil, fmt.Errorf("%w: %q runs backwards", ErrMalformedRange, segment)
		}

		// Generation stops at the last value <= end; end itself need
		// not be reached exactly for a stepped range.
		for v := start; v <= end; v += step {
			frames = append(frames, Frame{Value: v, Text: c.render(v)})
		}
	}

	return frames, nil
}

// render formats a frame number with the configured padding.
func (c *Codec) render(v int) string {
	if c.cfg.Padding == nil || *c.cfg.Padding <= 0 {
		return strconv.Itoa(v)
	}
	if v < 0 {
		return "-" + fmt.Sprintf("%0*d", *c.cfg.Padding, -v)
	}
	return fmt.Sprintf("%0*d", *c.cfg.Padding, v)
}
