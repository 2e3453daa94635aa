package imagehash

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// Hasher produces a perceptual fingerprint for an image file. Implementations
// must return the same hex string for the same pixels regardless of encoding.
type Hasher interface {
	HashFile(path string) (string, error)
}

// PHasher computes a DCT-based 64-bit perceptual hash: resize to 32x32
// grayscale, DCT, take the 8x8 low-frequency block, threshold on its median.
type PHasher struct{}

// HashFile loads the image in grayscale and returns its perceptual hash as a
// 16-character hex string.
func (PHasher) HashFile(path string) (string, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return "", fmt.Errorf("failed to load image: %s", path)
	}
	defer img.Close()
	return perceptualHash(img)
}

func perceptualHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Point{X: 32, Y: 32}, 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() != 1 {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	} else {
		resized.CopyTo(&gray)
	}

	floatImg := gocv.NewMat()
	defer floatImg.Close()
	gray.ConvertTo(&floatImg, gocv.MatTypeCV32F)

	dct := gocv.NewMat()
	defer dct.Close()
	gocv.DCT(floatImg, &dct, 0)

	lowFreq := dct.Region(image.Rect(0, 0, 8, 8))
	defer lowFreq.Close()

	values := make([]float32, 0, 64)
	for y := 0; y < lowFreq.Rows(); y++ {
		for x := 0; x < lowFreq.Cols(); x++ {
			values = append(values, lowFreq.GetFloatAt(y, x))
		}
	}
	median := medianOf(values)

	var hashBytes []byte
	var currentByte byte
	var bitCount uint
	for y := 0; y < lowFreq.Rows(); y++ {
		for x := 0; x < lowFreq.Cols(); x++ {
			currentByte <<= 1
			if lowFreq.GetFloatAt(y, x) >= median {
				currentByte |= 1
			}
			bitCount++
			if bitCount == 8 {
				hashBytes = append(hashBytes, currentByte)
				currentByte = 0
				bitCount = 0
			}
		}
	}
	if bitCount > 0 {
		currentByte <<= 8 - bitCount
		hashBytes = append(hashBytes, currentByte)
	}

	hexString := ""
	for _, b := range hashBytes {
		hexString += fmt.Sprintf("%02x", b)
	}
	return hexString, nil
}

func medianOf(values []float32) float32 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float32, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
