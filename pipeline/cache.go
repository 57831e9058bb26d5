package pipeline

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-tempo/tempo"
)

// Activation cache layout, little endian: 4-byte magic, version byte, three
// reserved bytes, frame rate as float64, frame count as uint32, then one
// float32 per frame. Float32 storage halves the file size; activations are
// unit-range likelihoods, so the precision loss is far below any tempo
// decision threshold.
var cacheMagic = [4]byte{'T', 'A', 'C', 'T'}

const (
	cacheVersion = 1

	// maxCacheFrames caps the declared frame count so a corrupt header
	// cannot trigger an absurd allocation. 1<<28 frames is ~31 days of
	// signal at 100 fps.
	maxCacheFrames = 1 << 28
)

// ErrBadCache indicates a cache that is not a valid activation file:
// wrong magic, unsupported version, or a header inconsistent with the data.
var ErrBadCache = errors.New("pipeline: bad activation cache")

type cacheHeader struct {
	Magic     [4]byte
	Version   uint8
	_         [3]byte
	FrameRate float64
	Count     uint32
}

// WriteActivation writes act to w in the activation cache format.
func WriteActivation(w io.Writer, act tempo.Activation) error {
	header := cacheHeader{
		Magic:     cacheMagic,
		Version:   cacheVersion,
		FrameRate: act.FrameRate,
		Count:     uint32(len(act.Data)),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("pipeline: write cache header: %w", err)
	}

	data := make([]float32, len(act.Data))
	for i, v := range act.Data {
		data[i] = float32(v)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("pipeline: write cache data: %w", err)
	}
	return nil
}

// ReadActivation reads an activation in the cache format from r.
func ReadActivation(r io.Reader) (tempo.Activation, error) {
	var header cacheHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return tempo.Activation{}, fmt.Errorf("%w: header: %v", ErrBadCache, err)
	}
	if header.Magic != cacheMagic {
		return tempo.Activation{}, fmt.Errorf("%w: bad magic %q", ErrBadCache, header.Magic[:])
	}
	if header.Version != cacheVersion {
		return tempo.Activation{}, fmt.Errorf("%w: unsupported version %d", ErrBadCache, header.Version)
	}
	if header.FrameRate < 0 || header.Count > maxCacheFrames {
		return tempo.Activation{}, fmt.Errorf("%w: implausible header (rate %f, count %d)",
			ErrBadCache, header.FrameRate, header.Count)
	}

	data := make([]float32, header.Count)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return tempo.Activation{}, fmt.Errorf("%w: truncated data: %v", ErrBadCache, err)
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	act, err := tempo.NewActivation(samples, header.FrameRate)
	if err != nil {
		return tempo.Activation{}, fmt.Errorf("%w: %v", ErrBadCache, err)
	}
	return act, nil
}

// SaveActivation writes act to a file at path, creating or truncating it.
func SaveActivation(path string, act tempo.Activation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: create cache %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := WriteActivation(w, act); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("pipeline: flush cache %s: %w", path, err)
	}
	return f.Close()
}

// LoadActivation reads an activation cache file from path.
func LoadActivation(path string) (tempo.Activation, error) {
	f, err := os.Open(path)
	if err != nil {
		return tempo.Activation{}, fmt.Errorf("pipeline: open cache %s: %w", path, err)
	}
	defer f.Close()

	return ReadActivation(bufio.NewReader(f))
}
