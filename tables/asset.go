// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Asset format: a 6-byte header ("SMAT" + little-endian uint16 version)
// followed by a zstd frame holding the table lengths, the float32 values
// and the search table.
const (
	assetMagic   = "SMAT"
	assetVersion = 1
)

// ErrBadAsset is returned when an asset cannot be decoded.
var ErrBadAsset = errors.New("tables: bad asset")

// Encode writes s to w in the bundled asset format.
func Encode(w io.Writer, s *Set) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var raw bytes.Buffer
	raw.Grow(4*(len(s.ortho)+len(s.diag)) + 8 + 2*SearchKeys)
	_ = binary.Write(&raw, binary.LittleEndian, uint32(len(s.ortho))) //nolint:gosec // fixed table size
	_ = binary.Write(&raw, binary.LittleEndian, uint32(len(s.diag)))  //nolint:gosec // fixed table size
	writeFloats(&raw, s.ortho)
	writeFloats(&raw, s.diag)
	raw.Write(s.search[Backward][:])
	raw.Write(s.search[Forward][:])

	header := make([]byte, 0, 6)
	header = append(header, assetMagic...)
	header = binary.LittleEndian.AppendUint16(header, assetVersion)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("tables: write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("tables: create encoder: %w", err)
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		_ = enc.Close()
		return fmt.Errorf("tables: compress: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("tables: compress: %w", err)
	}
	return nil
}

// Decode reads a table set written by Encode and validates it.
func Decode(r io.Reader) (*Set, error) {
	header := make([]byte, 6)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrBadAsset, err)
	}
	if string(header[:4]) != assetMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadAsset, header[:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:]); v != assetVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadAsset, v)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadAsset, err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrBadAsset, err)
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("%w: truncated payload", ErrBadAsset)
	}

	no := int(binary.LittleEndian.Uint32(raw[0:]))
	nd := int(binary.LittleEndian.Uint32(raw[4:]))
	if no != orthoLen || nd != diagLen {
		return nil, fmt.Errorf("%w: table lengths %d/%d, want %d/%d", ErrBadAsset, no, nd, orthoLen, diagLen)
	}
	want := 8 + 4*(no+nd) + 2*SearchKeys
	if len(raw) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrBadAsset, len(raw), want)
	}

	s := &Set{
		ortho: readFloats(raw[8:], no),
		diag:  readFloats(raw[8+4*no:], nd),
	}
	tail := raw[8+4*(no+nd):]
	copy(s.search[Backward][:], tail[:SearchKeys])
	copy(s.search[Forward][:], tail[SearchKeys:])

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadAsset, err)
	}
	return s, nil
}

func writeFloats(buf *bytes.Buffer, v []float32) {
	var b [4]byte
	for _, f := range v {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		buf.Write(b[:])
	}
}

func readFloats(b []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
