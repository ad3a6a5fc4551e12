package binaryset

import (
	"fmt"

	"github.com/hupe1980/strigo/codec"
)

// SliceMetaKey is the reserved blob name carrying the slice manifest.
const SliceMetaKey = "__slice_meta"

// DefaultSliceSize is the slice size applied when none is configured.
const DefaultSliceSize = 16 << 20

type sliceInfo struct {
	Name     string `json:"name"`
	SliceNum int    `json:"slice_num"`
	TotalLen int64  `json:"total_len"`
}

// sliceManifest is the JSON payload stored under SliceMetaKey. It records
// the codec that wrote it and the compression applied to every slice.
type sliceManifest struct {
	Codec       string      `json:"codec"`
	Compression uint8       `json:"compression"`
	Slices      []sliceInfo `json:"slices"`
}

type sliceOptions struct {
	sliceSize   int
	compression CompressionType
}

// SliceOption configures Disassemble.
type SliceOption func(*sliceOptions)

// WithSliceSize sets the maximum slice size in bytes.
func WithSliceSize(n int) SliceOption {
	return func(o *sliceOptions) {
		if n > 0 {
			o.sliceSize = n
		}
	}
}

// WithCompression sets the compression applied to slices.
func WithCompression(c CompressionType) SliceOption {
	return func(o *sliceOptions) {
		o.compression = c
	}
}

// Disassemble splits every blob larger than the slice size into numbered
// slices ("name_0", "name_1", ...) and records them in a manifest blob, so
// that no single object handed to a storage tier exceeds the slice size.
// When compression is enabled, every blob goes through the slicing path and
// each slice is block-compressed.
//
// The input set is not modified. A set that already carries a manifest is
// returned unchanged.
func Disassemble(set *BinarySet, opts ...SliceOption) (*BinarySet, error) {
	o := sliceOptions{
		sliceSize:   DefaultSliceSize,
		compression: CompressionNone,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if set.Contains(SliceMetaKey) {
		return set, nil
	}

	out := New()
	manifest := sliceManifest{
		Codec:       codec.Default.Name(),
		Compression: uint8(o.compression),
	}

	for name, data := range set.All() {
		// Empty blobs have nothing to slice or compress.
		if len(data) == 0 || (len(data) <= o.sliceSize && o.compression == CompressionNone) {
			out.Append(name, data)
			continue
		}

		num := 0
		for off := 0; ; off += o.sliceSize {
			end := min(off+o.sliceSize, len(data))
			slice, err := compressBlock(data[off:end], o.compression)
			if err != nil {
				return nil, fmt.Errorf("disassemble %q: %w", name, err)
			}
			out.Append(fmt.Sprintf("%s_%d", name, num), slice)
			num++
			if end == len(data) {
				break
			}
		}

		manifest.Slices = append(manifest.Slices, sliceInfo{
			Name:     name,
			SliceNum: num,
			TotalLen: int64(len(data)),
		})
	}

	if len(manifest.Slices) == 0 {
		return out, nil
	}

	meta, err := codec.Default.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("disassemble manifest: %w", err)
	}
	out.Append(SliceMetaKey, meta)
	return out, nil
}

// Assemble reverses Disassemble: sliced blobs are decompressed and stitched
// back together under their original names. A set without a manifest is
// returned unchanged.
func Assemble(set *BinarySet) (*BinarySet, error) {
	meta, err := set.GetByName(SliceMetaKey)
	if err != nil {
		return set, nil
	}

	var manifest sliceManifest
	if err := codec.Default.Unmarshal(meta, &manifest); err != nil {
		return nil, fmt.Errorf("assemble manifest: %w", err)
	}
	if _, ok := codec.ByName(manifest.Codec); !ok {
		return nil, fmt.Errorf("assemble manifest: unknown codec %q", manifest.Codec)
	}
	compression := CompressionType(manifest.Compression)

	// Slice names to skip while copying the untouched blobs.
	sliced := make(map[string]bool, len(manifest.Slices))
	for _, info := range manifest.Slices {
		for i := 0; i < info.SliceNum; i++ {
			sliced[fmt.Sprintf("%s_%d", info.Name, i)] = true
		}
	}

	out := New()
	for name, data := range set.All() {
		if name == SliceMetaKey || sliced[name] {
			continue
		}
		out.Append(name, data)
	}

	for _, info := range manifest.Slices {
		var data []byte
		for i := 0; i < info.SliceNum; i++ {
			slice, err := set.GetByName(fmt.Sprintf("%s_%d", info.Name, i))
			if err != nil {
				return nil, fmt.Errorf("assemble %q: %w", info.Name, err)
			}
			if compression != CompressionNone {
				if slice, err = decompressBlock(slice, compression); err != nil {
					return nil, fmt.Errorf("assemble %q slice %d: %w", info.Name, i, err)
				}
			}
			data = append(data, slice...)
		}
		if int64(len(data)) != info.TotalLen {
			return nil, fmt.Errorf("assemble %q: reassembled %d bytes, manifest says %d",
				info.Name, len(data), info.TotalLen)
		}
		out.Append(info.Name, data)
	}
	return out, nil
}
