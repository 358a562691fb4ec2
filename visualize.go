package sgan_go

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// SaveSampleGrid Renders rows*cols generated images into a single grayscale
// PNG. Expects an NCHW single-channel tensor with values in [-1;1]; values
// are rescaled to [0;1] and clamped before quantization.
func SaveSampleGrid(images *tensor.Dense, rows, cols int, path string) error {
	if images.Dims() != 4 {
		return fmt.Errorf("Images tensor must have 4 dimensions (NCHW), but got %d", images.Dims())
	}
	shp := images.Shape()
	if shp[1] != 1 {
		return fmt.Errorf("Sample grid supports single-channel images only, but got %d channels", shp[1])
	}
	if shp[0] < rows*cols {
		return fmt.Errorf("Grid %dx%d needs %d images, but got %d", rows, cols, rows*cols, shp[0])
	}
	height, width := shp[2], shp[3]
	data := images.Data().([]float64)

	const gap = 2
	canvas := image.NewGray(image.Rect(0, 0, cols*(width+gap)+gap, rows*(height+gap)+gap))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sample := data[(r*cols+c)*height*width : (r*cols+c+1)*height*width]
			offsetY := gap + r*(height+gap)
			offsetX := gap + c*(width+gap)
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					v := 0.5*sample[y*width+x] + 0.5
					if v < 0.0 {
						v = 0.0
					}
					if v > 1.0 {
						v = 1.0
					}
					canvas.SetGray(offsetX+x, offsetY+y, color.Gray{Y: uint8(v * 255.0)})
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't create file '%s'", path))
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return errors.Wrap(err, fmt.Sprintf("Can't encode PNG to '%s'", path))
	}
	return nil
}
