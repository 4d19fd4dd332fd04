package renderer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

var radianceMagic = [4]byte{'S', 'P', 'R', 'B'}

// maxRadiancePixels bounds the buffer a header may ask for (16384x16384)
const maxRadiancePixels = 1 << 28

// ErrBadRadianceFile is returned when a radiance buffer has the wrong header
var ErrBadRadianceFile = errors.New("not a radiance buffer")

// Radiance is a linear-space HDR framebuffer. y = 0 is the bottom row.
type Radiance struct {
	Width, Height int
	Pixels        []core.Vec3
}

// NewRadiance creates a black buffer
func NewRadiance(width, height int) *Radiance {
	return &Radiance{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// Set stores the linear radiance of pixel (x, y)
func (r *Radiance) Set(x, y int, c core.Vec3) {
	r.Pixels[y*r.Width+x] = c
}

// At returns the linear radiance of pixel (x, y)
func (r *Radiance) At(x, y int) core.Vec3 {
	return r.Pixels[y*r.Width+x]
}

// Tonemap gamma-corrects every pixel into sink
func (r *Radiance) Tonemap(sink Sink, gamma float64) {
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			sink.SetPixel(x, y, core.GammaCorrect(r.At(x, y), gamma))
		}
	}
}

// WriteRadiance stores r as a zstd-compressed stream
func WriteRadiance(path string, r *Radiance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := encodeRadiance(enc, r); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadRadiance loads a buffer written by WriteRadiance
func ReadRadiance(path string) (*Radiance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	r, err := decodeRadiance(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r, nil
}

func encodeRadiance(w io.Writer, r *Radiance) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(radianceMagic[:]); err != nil {
		return err
	}
	header := [2]uint32{uint32(r.Width), uint32(r.Height)}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}

	var buf [12]byte
	for _, p := range r.Pixels {
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func decodeRadiance(rd io.Reader) (*Radiance, error) {
	br := bufio.NewReader(rd)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, err
	}
	if magic != radianceMagic {
		return nil, ErrBadRadianceFile
	}

	var header [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	w, h := header[0], header[1]
	if w == 0 || h == 0 || uint64(w)*uint64(h) > maxRadiancePixels {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrBadRadianceFile, w, h)
	}
	r := NewRadiance(int(w), int(h))
	var buf [12]byte
	for i := range r.Pixels {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, err
		}
		r.Pixels[i] = core.NewVec3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))),
		)
	}
	return r, nil
}
