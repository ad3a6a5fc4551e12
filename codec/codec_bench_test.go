package codec

import (
	"fmt"
	"testing"
)

type benchSlice struct {
	Name     string `json:"name"`
	SliceNum int    `json:"slice_num"`
	TotalLen int64  `json:"total_len"`
}

type benchManifest struct {
	Codec  string       `json:"codec"`
	Slices []benchSlice `json:"slices"`
}

// manifest builds a slice manifest like the ones binaryset persists: one
// entry per sliced segment. n controls how many segments were sliced.
func manifest(n int) benchManifest {
	m := benchManifest{Codec: "go-json"}
	for i := 0; i < n; i++ {
		m.Slices = append(m.Slices, benchSlice{
			Name:     fmt.Sprintf("segment_%d", i),
			SliceNum: 4 + i%7,
			TotalLen: int64(i+1) << 20,
		})
	}
	return m
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func BenchmarkCodec_Marshal_Manifest(b *testing.B) {
	for _, n := range []int{2, 64, 512} {
		m := manifest(n)
		b.Run(fmt.Sprintf("slices_%d/stdlib", n), func(b *testing.B) {
			benchmarkCodecMarshal(b, JSON{}, m)
		})
		b.Run(fmt.Sprintf("slices_%d/go-json", n), func(b *testing.B) {
			benchmarkCodecMarshal(b, GoJSON{}, m)
		})
	}
}

func BenchmarkCodec_Unmarshal_Manifest(b *testing.B) {
	for _, n := range []int{2, 64, 512} {
		data := MustMarshal(JSON{}, manifest(n))
		b.Run(fmt.Sprintf("slices_%d/stdlib", n), func(b *testing.B) {
			var sink benchManifest
			benchmarkCodecUnmarshal(b, JSON{}, data, &sink)
			_ = sink
		})
		b.Run(fmt.Sprintf("slices_%d/go-json", n), func(b *testing.B) {
			var sink benchManifest
			benchmarkCodecUnmarshal(b, GoJSON{}, data, &sink)
			_ = sink
		})
	}
}
