// Package schemas defines the wire types shared by the API, the scan
// catalog and the CLI
package schemas

import (
	"fmt"

	"github.com/chicogong/frameseq/pkg/framespec"
)

// ScanSpec is the user-submitted request to scan a storage location for
// frame sequences
type ScanSpec struct {
	// SourceURI locates the listing to scan (file://, s3://, https://)
	SourceURI string `json:"source_uri"`

	// Options tunes the codec used to condense the listing
	Options *CodecOptions `json:"options,omitempty"`
}

// CodecOptions mirrors the configurable knobs of the framespec codec
type CodecOptions struct {
	StepDelimiter    string `json:"step_delimiter,omitempty"`
	FramePattern     string `json:"frame_pattern,omitempty"`
	PrefixGroups     []int  `json:"prefix_groups,omitempty"`
	FrameGroup       *int   `json:"frame_group,omitempty"`
	PostfixGroups    []int  `json:"postfix_groups,omitempty"`
	SinglePass       bool   `json:"single_pass,omitempty"`
	FramespecPattern string `json:"framespec_pattern,omitempty"`
	Padding          *int   `json:"padding,omitempty"`
}

// ToConfig converts the options to a codec configuration. A nil receiver
// yields the default configuration.
func (o *CodecOptions) ToConfig() framespec.Config {
	if o == nil {
		return framespec.Config{}
	}
	return framespec.Config{
		StepDelimiter:    o.StepDelimiter,
		FramePattern:     o.FramePattern,
		PrefixGroups:     o.PrefixGroups,
		FrameGroup:       o.FrameGroup,
		PostfixGroups:    o.PostfixGroups,
		SinglePass:       o.SinglePass,
		FramespecPattern: o.FramespecPattern,
		Padding:          o.Padding,
	}
}

// Validate checks a scan spec before it is accepted
func (s *ScanSpec) Validate() error {
	if s.SourceURI == "" {
		return fmt.Errorf("source_uri is required")
	}
	if _, err := framespec.New(s.Options.ToConfig()); err != nil {
		return fmt.Errorf("invalid codec options: %w", err)
	}
	return nil
}
