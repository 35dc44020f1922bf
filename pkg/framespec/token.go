package framespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Token is the decomposition of a single file name into the text before the
// frame number, the frame number itself, and the text after it.
type Token struct {
	// Prefix is the text before the frame number
	Prefix string

	// Value is the frame number
	Value int

	// Width is the character length of the raw frame-number text,
	// including a leading sign and any leading zeros
	Width int

	// Postfix is the text after the frame number
	Postfix string
}

// Token splits a file name into prefix, frame number and postfix using the
// configured frame-number pattern and group mapping.
//
// Returns ErrNoNumberFound if the pattern does not match (e.g. the name
// contains no digits).
func (c *Codec) Token(name string) (Token, error) {
	m := c.framePat.FindStringSubmatch(name)
	if m == nil {
		return Token{}, fmt.Errorf("%w in %q", ErrNoNumberFound, name)
	}

	prefix, err := joinGroups(m, c.cfg.PrefixGroups)
	if err != nil {
		return Token{}, err
	}
	postfix, err := joinGroups(m, c.cfg.PostfixGroups)
	if err != nil {
		return Token{}, err
	}

	raw, err := group(m, c.frameGroup())
	if err != nil {
		return Token{}, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return Token{}, fmt.Errorf("frame group %d captured %q, not an integer", c.frameGroup(), raw)
	}

	return Token{
		Prefix:  prefix,
		Value:   value,
		Width:   len(raw),
		Postfix: postfix,
	}, nil
}

// group returns capture group n of a submatch. Group numbers are zero-based
// capture-group indices (group 0 is the first capture group, not the whole
// match).
func group(m []string, n int) (string, error) {
	if n < 0 || n+1 >= len(m) {
		return "", fmt.Errorf("capture group %d out of range (pattern has %d groups)", n, len(m)-1)
	}
	return m[n+1], nil
}

// joinGroups concatenates the referenced capture groups in index order.
func joinGroups(m []string, groups []int) (string, error) {
	var b strings.Builder
	for _, n := range groups {
		g, err := group(m, n)
		if err != nil {
			return "", err
		}
		b.WriteString(g)
	}
	return b.String(), nil
}

// compileAnchored compiles a pattern, anchoring it at the start of the
// string so extraction always begins at the first character.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	return regexp.Compile(pattern)
}
