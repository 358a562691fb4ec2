package sgan_go

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// IDX file magic numbers (big-endian): unsigned byte tensors of rank 3 (images) and 1 (labels)
const (
	idxImagesMagic = 0x00000803
	idxLabelsMagic = 0x00000801
)

// LoadMNIST Reads the four MNIST IDX files (optionally gzipped) from the
// provided directory and returns normalized train and test sets.
//
// Expected file names: train-images-idx3-ubyte, train-labels-idx1-ubyte,
// t10k-images-idx3-ubyte, t10k-labels-idx1-ubyte (with optional .gz suffix)
//
func LoadMNIST(dir string) (*TrainSet, *TrainSet, error) {
	trainSet, err := loadIDXPair(filepath.Join(dir, "train-images-idx3-ubyte"), filepath.Join(dir, "train-labels-idx1-ubyte"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't load train part of MNIST")
	}
	testSet, err := loadIDXPair(filepath.Join(dir, "t10k-images-idx3-ubyte"), filepath.Join(dir, "t10k-labels-idx1-ubyte"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't load test part of MNIST")
	}
	return trainSet, testSet, nil
}

func loadIDXPair(imagesPath, labelsPath string) (*TrainSet, error) {
	pixels, n, rows, cols, err := readIDXImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := readIDXLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(labels) != n {
		return nil, fmt.Errorf("Images file holds %d samples, but labels file holds %d", n, len(labels))
	}
	images, err := NormalizeBytePixels(pixels, n, 1, rows, cols)
	if err != nil {
		return nil, err
	}
	return NewTrainSet(images, labels)
}

// openMaybeGzip Opens the file trying the plain name first and the '.gz'
// suffixed one as a fallback
func openMaybeGzip(path string) (io.ReadCloser, error) {
	if f, err := os.Open(path); err == nil {
		return f, nil
	}
	f, err := os.Open(path + ".gz")
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't open neither '%s' nor '%s.gz'", path, path))
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, fmt.Sprintf("Can't ungzip '%s.gz'", path))
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (r *gzipReadCloser) Read(p []byte) (int, error) { return r.gz.Read(p) }
func (r *gzipReadCloser) Close() error {
	r.gz.Close()
	return r.file.Close()
}

func readIDXImages(path string) (pixels []byte, n, rows, cols int, err error) {
	rd, err := openMaybeGzip(path)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	defer rd.Close()
	var header [4]uint32
	for i := range header {
		if err = binary.Read(rd, binary.BigEndian, &header[i]); err != nil {
			return nil, 0, 0, 0, errors.Wrap(err, fmt.Sprintf("Can't read IDX header of '%s'", path))
		}
	}
	if header[0] != idxImagesMagic {
		return nil, 0, 0, 0, fmt.Errorf("File '%s' has magic 0x%08x, but images file must have 0x%08x", path, header[0], idxImagesMagic)
	}
	n, rows, cols = int(header[1]), int(header[2]), int(header[3])
	pixels, err = ioutil.ReadAll(rd)
	if err != nil {
		return nil, 0, 0, 0, errors.Wrap(err, fmt.Sprintf("Can't read pixel data of '%s'", path))
	}
	if len(pixels) != n*rows*cols {
		return nil, 0, 0, 0, fmt.Errorf("File '%s' declares %d samples of %dx%d, but holds %d bytes", path, n, rows, cols, len(pixels))
	}
	return pixels, n, rows, cols, nil
}

func readIDXLabels(path string) ([]int, error) {
	rd, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	var header [2]uint32
	for i := range header {
		if err = binary.Read(rd, binary.BigEndian, &header[i]); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("Can't read IDX header of '%s'", path))
		}
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("File '%s' has magic 0x%08x, but labels file must have 0x%08x", path, header[0], idxLabelsMagic)
	}
	raw, err := ioutil.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't read label data of '%s'", path))
	}
	if len(raw) != int(header[1]) {
		return nil, fmt.Errorf("File '%s' declares %d labels, but holds %d bytes", path, header[1], len(raw))
	}
	labels := make([]int, len(raw))
	for i, b := range raw {
		labels[i] = int(b)
	}
	return labels, nil
}
