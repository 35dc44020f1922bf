package framespec

import (
	"sort"
	"strconv"
	"strings"
)

// Range describes one run of frame numbers with a uniform step.
type Range struct {
	// Start is the first frame of the run
	Start int

	// End is the last frame of the run (inclusive)
	End int

	// Step is the difference between consecutive frames. Meaningless for
	// a singleton.
	Step int

	// Count is the number of frames in the run
	Count int
}

// Singleton reports whether the range covers exactly one frame.
func (r Range) Singleton() bool {
	return r.Count == 1
}

// Frames expands the range back into the frames it covers.
func (r Range) Frames() []int {
	if r.Singleton() {
		return []int{r.Start}
	}
	frames := make([]int, 0, r.Count)
	for v := r.Start; v <= r.End; v += r.Step {
		frames = append(frames, v)
	}
	return frames
}

// Compact groups a set of frame numbers into ranges whose expansion
// reproduces the set exactly. Input order does not matter; duplicates are
// collapsed. The result is ordered by ascending start frame.
//
// The first pass is a single greedy scan: each run adopts the step between
// its first two members and extends while consecutive differences match.
// The optional second pass shifts run boundaries: the greedy scan can trap
// the first member of a long run at the tail of the previous one, turning
// 1 4 6 8 10 into "1-4x3,6-10x2" when "1,4-10x2" reads better. The second
// pass iterates over ranges, not frames, so its cost is proportional to
// the number of groupings.
func Compact(frames []int, twoPass bool) []Range {
	if len(frames) == 0 {
		return nil
	}

	arr := append([]int(nil), frames...)
	sort.Ints(arr)
	arr = dedup(arr)

	ranges := groupByStep(arr)
	if twoPass {
		ranges = rebalance(ranges)
	}
	return ranges
}

// groupByStep is the greedy first pass.
func groupByStep(arr []int) []Range {
	var ranges []Range

	i := 0
	for i < len(arr) {
		// Last element left over: emit a singleton
		if i == len(arr)-1 {
			ranges = append(ranges, Range{Start: arr[i], End: arr[i], Count: 1})
			break
		}

		// Adopt the step to the next element and extend while it holds
		step := arr[i+1] - arr[i]
		j := i + 1
		for j+1 < len(arr) && arr[j+1]-arr[j] == step {
			j++
		}

		ranges = append(ranges, Range{
			Start: arr[i],
			End:   arr[j],
			Step:  step,
			Count: j - i + 1,
		})
		i = j + 1
	}

	return ranges
}

// rebalance is the second pass: a fixed-point loop over adjacent range
// pairs that moves the last frame of a run to the front of the next run
// when the gap between them equals the next run's step and the next run
// is the longer of the two. Shifts apply left to right until a sweep
// changes nothing, so output is deterministic. The frame set is never
// altered, only where one run ends and the next begins.
func rebalance(ranges []Range) []Range {
	for changed := true; changed; {
		changed = false
		for i := 0; i+1 < len(ranges); i++ {
			a, b := ranges[i], ranges[i+1]
			if a.Count < 2 || b.Count <= a.Count {
				continue
			}
			if b.Start-a.End != b.Step {
				continue
			}

			b.Start = a.End
			b.Count++
			a.End -= a.Step
			a.Count--
			if a.Count == 1 {
				a.Step = 0
			}

			ranges[i], ranges[i+1] = a, b
			changed = true
		}
	}
	return ranges
}

// formatRanges serializes ranges into framespec syntax: singletons as bare
// integers, step-1 runs as "start-end", stepped runs with the delimiter.
func formatRanges(ranges []Range, stepDelimiter string) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		switch {
		case r.Singleton():
			parts[i] = strconv.Itoa(r.Start)
		case r.Step == 1:
			parts[i] = strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
		default:
			parts[i] = strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End) + stepDelimiter + strconv.Itoa(r.Step)
		}
	}
	return strings.Join(parts, ",")
}

func dedup(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
