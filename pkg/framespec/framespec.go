// Package framespec converts between a list of frame-numbered file names
// and a single condensed name embedding a framespec.
//
// A framespec is compact range notation for a set of integers, e.g.
// "1-10x2,20-30". A condensed file string embeds a framespec where the
// enumerated frame numbers would be, so the files
//
//	file.1.ext file.3.ext file.5.ext
//
// condense to "file.1-5x2.ext", and back. The codec is a pure function of
// its input plus configuration; a Codec is safe for concurrent use.
package framespec

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFramePattern extracts the last run of digits (optionally signed) in
// a name as the frame number: a lazy prefix plus a digit-free tail pins the
// middle group to the final number. Lookarounds are not supported by Go's
// regexp, so custom patterns should use the same digit-free-tail idiom to
// anchor the frame group.
const DefaultFramePattern = `(.*?)(-?\d+)(\D*)$`

// DefaultStepDelimiter separates a range's end from its step.
const DefaultStepDelimiter = "x"

// Config controls extraction and rendering. The zero value selects the
// defaults documented on each field. A Config is read-only once handed to
// New; concurrent codec calls share it without locking.
type Config struct {
	// StepDelimiter separates a range end from its step in both
	// directions. Defaults to "x". Must not contain digits, '-' or ','.
	StepDelimiter string

	// FramePattern extracts prefix, frame number and postfix from one
	// file name. Defaults to DefaultFramePattern.
	FramePattern string

	// PrefixGroups lists the zero-based capture groups that concatenate
	// to the prefix. Defaults to [0].
	PrefixGroups []int

	// FrameGroup is the zero-based capture group holding the frame
	// number. Nil selects the default of 1.
	FrameGroup *int

	// PostfixGroups lists the zero-based capture groups that concatenate
	// to the postfix. Defaults to [2].
	PostfixGroups []int

	// SinglePass disables the second compaction pass.
	SinglePass bool

	// FramespecPattern locates the framespec span inside a condensed
	// file string. Defaults to a pattern derived from StepDelimiter. It
	// must not contain capture groups.
	FramespecPattern string

	// Padding is the fixed zero-pad width applied when rendering frame
	// numbers on decode. Nil pads each frame to its natural width.
	Padding *int
}

// Codec encodes files lists into condensed file strings and decodes them
// back. Construct with New; the zero value is not usable.
type Codec struct {
	cfg        Config
	framePat   *regexp.Regexp
	decodePat  *regexp.Regexp
	segmentPat *regexp.Regexp
}

// New validates the configuration, fills in defaults and compiles the
// patterns.
func New(cfg Config) (*Codec, error) {
	if cfg.StepDelimiter == "" {
		cfg.StepDelimiter = DefaultStepDelimiter
	}
	if strings.ContainsAny(cfg.StepDelimiter, "0123456789-,") {
		return nil, fmt.Errorf("step delimiter %q collides with framespec syntax", cfg.StepDelimiter)
	}
	if cfg.FramePattern == "" {
		cfg.FramePattern = DefaultFramePattern
	}
	if cfg.PrefixGroups == nil {
		cfg.PrefixGroups = []int{0}
	}
	if cfg.PostfixGroups == nil {
		cfg.PostfixGroups = []int{2}
	}
	if cfg.FramespecPattern == "" {
		cfg.FramespecPattern = defaultFramespecPattern(cfg.StepDelimiter)
	}
	groups := append(append([]int(nil), cfg.PrefixGroups...), cfg.PostfixGroups...)
	if cfg.FrameGroup != nil {
		groups = append(groups, *cfg.FrameGroup)
	}
	for _, n := range groups {
		if n < 0 {
			return nil, fmt.Errorf("negative capture group index %d", n)
		}
	}

	framePat, err := compileAnchored(cfg.FramePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid frame pattern: %w", err)
	}

	// The framespec span takes the place of the frame-number group, so
	// decode reuses the same group mapping as token extraction.
	decodePat, err := compileAnchored(`(.*?)(` + cfg.FramespecPattern + `)(\D*)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid framespec pattern: %w", err)
	}

	delim := regexp.QuoteMeta(cfg.StepDelimiter)
	segmentPat := regexp.MustCompile(`^(-?\d+)(?:-(-?\d+)(?:` + delim + `(-?\d+))?)?$`)

	return &Codec{
		cfg:        cfg,
		framePat:   framePat,
		decodePat:  decodePat,
		segmentPat: segmentPat,
	}, nil
}

// NewDefault returns a codec with the default configuration.
func NewDefault() *Codec {
	c, err := New(Config{})
	if err != nil {
		panic(err) // default config always compiles
	}
	return c
}

// defaultFramespecPattern matches one or more comma-joined framespec
// segments, including negative starts and ends.
func defaultFramespecPattern(stepDelimiter string) string {
	delim := regexp.QuoteMeta(stepDelimiter)
	return `(?:-?\d+(?:-?-\d+)?(?:` + delim + `\d+)?,?)+`
}

// Config returns the effective configuration, defaults applied.
func (c *Codec) Config() Config {
	return c.cfg
}

func (c *Codec) frameGroup() int {
	if c.cfg.FrameGroup == nil {
		return 1
	}
	return *c.cfg.FrameGroup
}

// Encode condenses a files list into a single condensed file string.
//
// Every member must decompose to the same prefix and postfix
// (ErrInconsistentAffixes otherwise) and carry a distinct frame number
// (ErrDuplicateFrame otherwise).
func (c *Codec) Encode(files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("encode of empty files list")
	}

	var prefix, postfix string
	frames := make([]int, 0, len(files))
	seen := make(map[int]string, len(files))

	for i, name := range files {
		tok, err := c.Token(name)
		if err != nil {
			return "", err
		}

		if i == 0 {
			prefix, postfix = tok.Prefix, tok.Postfix
		} else if tok.Prefix != prefix || tok.Postfix != postfix {
			return "", fmt.Errorf("%w: %q does not share prefix %q and postfix %q",
				ErrInconsistentAffixes, name, prefix, postfix)
		}

		if other, dup := seen[tok.Value]; dup {
			return "", fmt.Errorf("%w: %q and %q both carry frame %d",
				ErrDuplicateFrame, other, name, tok.Value)
		}
		seen[tok.Value] = name
		frames = append(frames, tok.Value)
	}

	spec := formatRanges(Compact(frames, !c.cfg.SinglePass), c.cfg.StepDelimiter)
	return prefix + spec + postfix, nil
}

// Decode expands a condensed file string back into the files list it
// denotes, in expansion order.
func (c *Codec) Decode(condensed string) ([]string, error) {
	prefix, spec, postfix, err := c.Split(condensed)
	if err != nil {
		return nil, err
	}

	frames, err := c.Expand(spec)
	if err != nil {
		return nil, err
	}

	files := make([]string, len(frames))
	for i, f := range frames {
		files[i] = prefix + f.Text + postfix
	}
	return files, nil
}

// Split isolates the framespec span of a condensed file string, returning
// prefix, framespec and postfix. Returns ErrNoFramespecFound when the
// string contains no framespec.
func (c *Codec) Split(condensed string) (prefix, spec, postfix string, err error) {
	m := c.decodePat.FindStringSubmatch(condensed)
	if m == nil {
		return "", "", "", fmt.Errorf("%w in %q", ErrNoFramespecFound, condensed)
	}

	if prefix, err = joinGroups(m, c.cfg.PrefixGroups); err != nil {
		return "", "", "", err
	}
	if spec, err = group(m, c.frameGroup()); err != nil {
		return "", "", "", err
	}
	if postfix, err = joinGroups(m, c.cfg.PostfixGroups); err != nil {
		return "", "", "", err
	}
	return prefix, spec, postfix, nil
}

// Spec condenses a list of frame numbers into a framespec string, with no
// file name involved.
func (c *Codec) Spec(frames []int) string {
	return formatRanges(Compact(frames, !c.cfg.SinglePass), c.cfg.StepDelimiter)
}

// Frames expands a framespec string into the frame numbers it denotes.
func (c *Codec) Frames(spec string) ([]int, error) {
	expanded, err := c.Expand(spec)
	if err != nil {
		return nil, err
	}
	frames := make([]int, len(expanded))
	for i, f := range expanded {
		frames[i] = f.Value
	}
	return frames, nil
}
