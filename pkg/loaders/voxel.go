// Package loaders reads and writes voxel buffer files. The on-disk format is
// a little-endian binary layout: magic, version, attribute name, data window,
// mapping parameters, then the voxel payload (dense or sparse).
package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/mapping"
)

const (
	voxelMagic   = "GVOX"
	voxelVersion = uint32(1)
)

// Mapping variant tags in the file header
const (
	mappingNone    = byte(0)
	mappingUniform = byte(1)
	mappingFrustum = byte(2)
)

// Storage layout tags in the file header
const (
	storageDense  = byte(0)
	storageSparse = byte(1)
)

// ReadVoxelFile loads a voxel buffer from disk. The returned buffer carries
// its attribute name, data window, and mapping; a file with an empty
// attribute name has no usable field and is an error.
func ReadVoxelFile(path string) (buffer.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open voxel file: %w", err)
	}
	defer file.Close()
	return ReadVoxel(bufio.NewReader(file))
}

// ReadVoxel loads a voxel buffer from a stream
func ReadVoxel(r io.Reader) (buffer.Buffer, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read voxel header: %w", err)
	}
	if string(magic[:]) != voxelMagic {
		return nil, fmt.Errorf("not a voxel file (magic %q)", magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read voxel version: %w", err)
	}
	if version != voxelVersion {
		return nil, fmt.Errorf("unsupported voxel file version %d", version)
	}

	attr, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute name: %w", err)
	}
	if attr == "" {
		return nil, fmt.Errorf("voxel file contains no usable attribute")
	}

	var windowRaw [6]int32
	if err := binary.Read(r, binary.LittleEndian, &windowRaw); err != nil {
		return nil, fmt.Errorf("failed to read data window: %w", err)
	}
	window := core.NewBox3i(
		core.NewV3i(int(windowRaw[0]), int(windowRaw[1]), int(windowRaw[2])),
		core.NewV3i(int(windowRaw[3]), int(windowRaw[4]), int(windowRaw[5])),
	)
	if !window.IsValid() {
		return nil, fmt.Errorf("voxel file has empty data window %v", window)
	}

	m, err := readMapping(r)
	if err != nil {
		return nil, err
	}

	var storage byte
	if err := binary.Read(r, binary.LittleEndian, &storage); err != nil {
		return nil, fmt.Errorf("failed to read storage kind: %w", err)
	}

	switch storage {
	case storageDense:
		buf := buffer.NewDenseBuffer(attr, window, m)
		if err := readDenseVoxels(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case storageSparse:
		buf := buffer.NewSparseBuffer(attr, window, m)
		if err := readSparseVoxels(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unknown voxel storage kind %d", storage)
	}
}

func readMapping(r io.Reader) (mapping.Mapping, error) {
	var kind byte
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, fmt.Errorf("failed to read mapping kind: %w", err)
	}
	switch kind {
	case mappingNone:
		return nil, nil
	case mappingUniform:
		mat, err := readMat4(r)
		if err != nil {
			return nil, err
		}
		m, err := mapping.NewUniformMapping(mat)
		if err != nil {
			return nil, fmt.Errorf("voxel file has invalid uniform mapping: %w", err)
		}
		return m, nil
	case mappingFrustum:
		camToWorld, err := readMat4(r)
		if err != nil {
			return nil, err
		}
		var params [4]float64
		if err := binary.Read(r, binary.LittleEndian, &params); err != nil {
			return nil, fmt.Errorf("failed to read frustum parameters: %w", err)
		}
		m, err := mapping.NewFrustumMapping(camToWorld, params[0], params[1], params[2], params[3])
		if err != nil {
			return nil, fmt.Errorf("voxel file has invalid frustum mapping: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mapping kind %d", kind)
	}
}

func readDenseVoxels(r io.Reader, buf *buffer.DenseBuffer) error {
	window := buf.DataWindow()
	values := make([]float32, 3)
	for k := window.Min.Z; k <= window.Max.Z; k++ {
		for j := window.Min.Y; j <= window.Max.Y; j++ {
			for i := window.Min.X; i <= window.Max.X; i++ {
				if err := binary.Read(r, binary.LittleEndian, values); err != nil {
					return fmt.Errorf("failed to read voxel data: %w", err)
				}
				buf.SetValue(i, j, k, core.NewVec3(float64(values[0]), float64(values[1]), float64(values[2])))
			}
		}
	}
	return nil
}

func readSparseVoxels(r io.Reader, buf *buffer.SparseBuffer) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read sparse voxel count: %w", err)
	}
	for n := uint32(0); n < count; n++ {
		var idx [3]int32
		var rgb [3]float32
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return fmt.Errorf("failed to read sparse voxel index: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &rgb); err != nil {
			return fmt.Errorf("failed to read sparse voxel value: %w", err)
		}
		buf.SetValue(int(idx[0]), int(idx[1]), int(idx[2]),
			core.NewVec3(float64(rgb[0]), float64(rgb[1]), float64(rgb[2])))
	}
	return nil
}

// WriteVoxelFile writes a voxel buffer to disk. Sparse buffers are written
// sparsely; everything else is written dense.
func WriteVoxelFile(path string, buf buffer.Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create voxel file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteVoxel(w, buf); err != nil {
		return err
	}
	return w.Flush()
}

// WriteVoxel writes a voxel buffer to a stream
func WriteVoxel(w io.Writer, buf buffer.Buffer) error {
	if _, err := w.Write([]byte(voxelMagic)); err != nil {
		return fmt.Errorf("failed to write voxel header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, voxelVersion); err != nil {
		return fmt.Errorf("failed to write voxel version: %w", err)
	}
	if err := writeString(w, buf.Attribute()); err != nil {
		return fmt.Errorf("failed to write attribute name: %w", err)
	}

	window := buf.DataWindow()
	windowRaw := [6]int32{
		int32(window.Min.X), int32(window.Min.Y), int32(window.Min.Z),
		int32(window.Max.X), int32(window.Max.Y), int32(window.Max.Z),
	}
	if err := binary.Write(w, binary.LittleEndian, windowRaw); err != nil {
		return fmt.Errorf("failed to write data window: %w", err)
	}

	if err := writeMapping(w, buf.Mapping()); err != nil {
		return err
	}

	if sparse, ok := buf.(*buffer.SparseBuffer); ok {
		return writeSparseVoxels(w, sparse)
	}
	return writeDenseVoxels(w, buf)
}

func writeMapping(w io.Writer, m mapping.Mapping) error {
	switch mt := m.(type) {
	case nil:
		return binary.Write(w, binary.LittleEndian, mappingNone)
	case *mapping.UniformMapping:
		if err := binary.Write(w, binary.LittleEndian, mappingUniform); err != nil {
			return err
		}
		return writeMat4(w, mt.LocalToWorldMatrix())
	case *mapping.FrustumMapping:
		if err := binary.Write(w, binary.LittleEndian, mappingFrustum); err != nil {
			return err
		}
		if err := writeMat4(w, mt.CameraToWorld()); err != nil {
			return err
		}
		params := [4]float64{mt.FOV(), mt.Aspect(), mt.Near(), mt.Far()}
		return binary.Write(w, binary.LittleEndian, params)
	default:
		return fmt.Errorf("cannot serialize mapping variant %T", m)
	}
}

func writeDenseVoxels(w io.Writer, buf buffer.Buffer) error {
	if err := binary.Write(w, binary.LittleEndian, storageDense); err != nil {
		return err
	}
	window := buf.DataWindow()
	for k := window.Min.Z; k <= window.Max.Z; k++ {
		for j := window.Min.Y; j <= window.Max.Y; j++ {
			for i := window.Min.X; i <= window.Max.X; i++ {
				v := buf.Value(i, j, k)
				rgb := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
				if err := binary.Write(w, binary.LittleEndian, rgb); err != nil {
					return fmt.Errorf("failed to write voxel data: %w", err)
				}
			}
		}
	}
	return nil
}

func writeSparseVoxels(w io.Writer, buf *buffer.SparseBuffer) error {
	if err := binary.Write(w, binary.LittleEndian, storageSparse); err != nil {
		return err
	}

	window := buf.DataWindow()
	type entry struct {
		idx [3]int32
		rgb [3]float32
	}
	var entries []entry
	for k := window.Min.Z; k <= window.Max.Z; k++ {
		for j := window.Min.Y; j <= window.Max.Y; j++ {
			for i := window.Min.X; i <= window.Max.X; i++ {
				v := buf.Value(i, j, k)
				if v == core.ZeroColor() {
					continue
				}
				entries = append(entries, entry{
					idx: [3]int32{int32(i), int32(j), int32(k)},
					rgb: [3]float32{float32(v.X), float32(v.Y), float32(v.Z)},
				})
			}
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return fmt.Errorf("failed to write sparse voxel count: %w", err)
	}
	for _, e := range entries {
		if err := binary.Write(w, binary.LittleEndian, e.idx); err != nil {
			return fmt.Errorf("failed to write sparse voxel index: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.rgb); err != nil {
			return fmt.Errorf("failed to write sparse voxel value: %w", err)
		}
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readMat4(r io.Reader) (mgl64.Mat4, error) {
	var raw [16]float64
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return mgl64.Mat4{}, fmt.Errorf("failed to read transform: %w", err)
	}
	return mgl64.Mat4(raw), nil
}

func writeMat4(w io.Writer, m mgl64.Mat4) error {
	return binary.Write(w, binary.LittleEndian, [16]float64(m))
}
