package detector

import (
	"errors"
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// Face is a detected face: its centre (row, col), the side of its bounding
// square and the detection score.
type Face struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Scale int     `json:"scale"`
	Q     float32 `json:"q"`
}

// Detector finds faces in grayscale webcam frames.
type Detector struct {
	classifier *pigo.Pigo

	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	// IoU is the intersection over union threshold used to cluster overlapping detections.
	IoU float64
	// MinQuality drops detections scoring below it.
	MinQuality float32
}

// New unpacks a facefinder cascade.
func New(cascade []byte) (*Detector, error) {
	if len(cascade) == 0 {
		return nil, errors.New("empty facefinder cascade")
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the facefinder cascade file: %w", err)
	}
	return &Detector{
		classifier:  classifier,
		MinSize:     40,
		MaxSize:     1000,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoU:         0.1,
		MinQuality:  5,
	}, nil
}

// Load reads the cascade file at path and unpacks it.
func Load(path string) (*Detector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading the facefinder cascade file: %w", err)
	}
	return New(cascade)
}

// DetectFaces runs the cluster detection over a grayscale frame of
// width x height pixels and returns the faces, best score first.
func (d *Detector) DetectFaces(pixels []uint8, width, height int) ([]Face, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height {
		return nil, fmt.Errorf("frame of %d bytes does not hold %dx%d pixels", len(pixels), width, height)
	}
	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   height,
			Cols:   width,
			Dim:    width,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	dets := d.classifier.RunCascade(cParams, 0.0)

	// Calculate the intersection over union (IoU) of two clusters.
	dets = d.classifier.ClusterDetections(dets, d.IoU)

	faces := make([]Face, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.MinQuality {
			continue
		}
		faces = append(faces, Face{Row: det.Row, Col: det.Col, Scale: det.Scale, Q: det.Q})
	}
	Rank(faces)
	return faces, nil
}

// Rank orders faces by score, best first.
func Rank(faces []Face) {
	for i := 1; i < len(faces); i++ {
		for j := i; j > 0 && faces[j].Q > faces[j-1].Q; j-- {
			faces[j], faces[j-1] = faces[j-1], faces[j]
		}
	}
}

// Grayscale converts packed RGBA pixels into the luma plane the cascade expects.
func Grayscale(rgba []uint8) []uint8 {
	gray := make([]uint8, len(rgba)/4)
	for i := range gray {
		r, g, b := float64(rgba[i*4]), float64(rgba[i*4+1]), float64(rgba[i*4+2])
		gray[i] = uint8(0.299*r + 0.587*g + 0.114*b + 0.5)
	}
	return gray
}
