package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chicogong/frameseq/pkg/framespec"
)

func TestScan_MixedListing(t *testing.T) {
	codec := framespec.NewDefault()

	names := []string{
		"beauty.0001.exr",
		"beauty.0002.exr",
		"beauty.0003.exr",
		"depth.1.exr",
		"depth.3.exr",
		"depth.5.exr",
		"notes.txt",
		"readme",
	}

	result, err := Scan(names, codec)
	require.NoError(t, err)
	require.Len(t, result.Sequences, 2)

	beauty := result.Sequences[0]
	assert.Equal(t, "beauty.", beauty.Prefix)
	assert.Equal(t, ".exr", beauty.Postfix)
	assert.Equal(t, "1-3", beauty.Spec)
	assert.Equal(t, "beauty.1-3.exr", beauty.Condensed)
	assert.Equal(t, 1, beauty.FirstFrame)
	assert.Equal(t, 3, beauty.LastFrame)
	assert.Equal(t, 3, beauty.FrameCount)
	assert.Equal(t, 4, beauty.Padding)

	depth := result.Sequences[1]
	assert.Equal(t, "depth.", depth.Prefix)
	assert.Equal(t, "1-5x2", depth.Spec)
	assert.Equal(t, 0, depth.Padding)

	assert.Equal(t, []string{"notes.txt", "readme"}, result.Loose)
}

func TestScan_SamePrefixDifferentPostfix(t *testing.T) {
	codec := framespec.NewDefault()

	result, err := Scan([]string{
		"plate.1.exr", "plate.2.exr",
		"plate.1.jpg", "plate.2.jpg",
	}, codec)
	require.NoError(t, err)
	require.Len(t, result.Sequences, 2)
	assert.Equal(t, "plate.1-2.exr", result.Sequences[0].Condensed)
	assert.Equal(t, "plate.1-2.jpg", result.Sequences[1].Condensed)
}

func TestScan_DuplicateFrame(t *testing.T) {
	codec := framespec.NewDefault()

	_, err := Scan([]string{"f.1.ext", "f.01.ext"}, codec)
	require.Error(t, err)
	assert.ErrorIs(t, err, framespec.ErrDuplicateFrame)
}

func TestScan_Empty(t *testing.T) {
	codec := framespec.NewDefault()

	result, err := Scan(nil, codec)
	require.NoError(t, err)
	assert.Empty(t, result.Sequences)
	assert.Empty(t, result.Loose)
}

func TestScan_Deterministic(t *testing.T) {
	codec := framespec.NewDefault()
	names := []string{"b.2.exr", "a.1.exr", "b.1.exr", "a.2.exr"}

	first, err := Scan(names, codec)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Scan(names, codec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
