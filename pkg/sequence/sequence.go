// Package sequence groups a file-name listing into frame sequences.
//
// A directory listing usually mixes several sequences with loose files that
// carry no frame number. Scan partitions the names by shared prefix and
// postfix, condenses each group through the framespec codec, and reports
// the leftovers.
package sequence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chicogong/frameseq/pkg/framespec"
)

// Sequence is one condensed group of frame-numbered names.
type Sequence struct {
	// Prefix and Postfix are the shared affixes of every member
	Prefix  string `json:"prefix"`
	Postfix string `json:"postfix"`

	// Spec is the framespec covering the member frame numbers
	Spec string `json:"spec"`

	// Condensed is the full condensed file string
	Condensed string `json:"condensed"`

	// FirstFrame and LastFrame bound the member frame numbers
	FirstFrame int `json:"first_frame"`
	LastFrame  int `json:"last_frame"`

	// FrameCount is the number of members
	FrameCount int `json:"frame_count"`

	// Padding is the uniform zero-pad width of the member frame tokens,
	// or 0 when members disagree or carry no padding
	Padding int `json:"padding"`
}

// Result is the outcome of scanning a listing.
type Result struct {
	// Sequences are the condensed groups, ordered by prefix then postfix
	Sequences []Sequence `json:"sequences"`

	// Loose lists names that carry no frame number, in input order
	Loose []string `json:"loose,omitempty"`
}

type bucket struct {
	names  []string
	tokens []framespec.Token
}

// Scan partitions names into frame sequences using the codec's extraction
// configuration. Names without a frame number are reported as loose, not
// treated as an error. Duplicate frame numbers within one group are an
// error, mirroring the codec's encode contract.
func Scan(names []string, c *framespec.Codec) (*Result, error) {
	buckets := make(map[[2]string]*bucket)
	var order [][2]string
	result := &Result{}

	for _, name := range names {
		tok, err := c.Token(name)
		if errors.Is(err, framespec.ErrNoNumberFound) {
			result.Loose = append(result.Loose, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", name, err)
		}

		key := [2]string{tok.Prefix, tok.Postfix}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.names = append(b.names, name)
		b.tokens = append(b.tokens, tok)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i][0] != order[j][0] {
			return order[i][0] < order[j][0]
		}
		return order[i][1] < order[j][1]
	})

	for _, key := range order {
		b := buckets[key]

		seq, err := condense(key[0], key[1], b, c)
		if err != nil {
			return nil, err
		}
		result.Sequences = append(result.Sequences, seq)
	}

	return result, nil
}

func condense(prefix, postfix string, b *bucket, c *framespec.Codec) (Sequence, error) {
	condensed, err := c.Encode(b.names)
	if err != nil {
		return Sequence{}, err
	}

	first, last := b.tokens[0].Value, b.tokens[0].Value
	values := make([]int, len(b.tokens))
	for i, tok := range b.tokens {
		values[i] = tok.Value
		if tok.Value < first {
			first = tok.Value
		}
		if tok.Value > last {
			last = tok.Value
		}
	}

	return Sequence{
		Prefix:     prefix,
		Postfix:    postfix,
		Spec:       c.Spec(values),
		Condensed:  condensed,
		FirstFrame: first,
		LastFrame:  last,
		FrameCount: len(b.names),
		Padding:    uniformWidth(b.tokens),
	}, nil
}

// uniformWidth returns the shared token width when every member was padded
// to the same width beyond its natural length, otherwise 0.
func uniformWidth(tokens []framespec.Token) int {
	width := tokens[0].Width
	padded := false
	for _, tok := range tokens {
		if tok.Width != width {
			return 0
		}
		if tok.Width > naturalWidth(tok.Value) {
			padded = true
		}
	}
	if !padded {
		return 0
	}
	return width
}

func naturalWidth(v int) int {
	n := 1
	if v < 0 {
		n++
		v = -v
	}
	for v >= 10 {
		n++
		v /= 10
	}
	return n
}
