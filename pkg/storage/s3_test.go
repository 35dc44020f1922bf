package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		prefix string
	}{
		{"s3://bucket/renders/shot_010", "bucket", "renders/shot_010"},
		{"s3://bucket/key", "bucket", "key"},
		{"s3://bucket", "bucket", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, prefix, err := parseS3URI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestParseS3URI_Invalid(t *testing.T) {
	_, _, err := parseS3URI("file:///not/s3")
	assert.Error(t, err)

	_, _, err = parseS3URI("s3://")
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "f.1.exr", baseName("renders/shot_010/f.1.exr"))
	assert.Equal(t, "f.1.exr", baseName("f.1.exr"))
}
