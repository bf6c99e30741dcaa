package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyCascade(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = Load("testdata/missing")
	assert.Error(t, err)
}

func TestDetectFacesChecksFrame(t *testing.T) {
	d := &Detector{}
	_, err := d.DetectFaces(make([]uint8, 10), 4, 4)
	assert.Error(t, err)
	_, err = d.DetectFaces(nil, 0, 0)
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	faces := []Face{{Q: 3}, {Q: 9}, {Q: 6}}
	Rank(faces)
	require.Len(t, faces, 3)
	assert.Equal(t, []float32{9, 6, 3}, []float32{faces[0].Q, faces[1].Q, faces[2].Q})
}

func TestGrayscale(t *testing.T) {
	gray := Grayscale([]uint8{
		255, 255, 255, 255,
		0, 0, 0, 255,
		255, 0, 0, 255,
	})
	assert.Equal(t, []uint8{255, 0, 76}, gray)
}
