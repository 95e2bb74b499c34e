package conv

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// makeDecayKernel creates a kernel that is a scaled exponential decay.
func makeDecayKernel(n int) []float64 {
	k := make([]float64, n)
	k[0] = 1.0
	for i := 1; i < n; i++ {
		k[i] = k[i-1] * 0.99
	}
	return k
}

// makeTestSignal creates a deterministic signal using a fixed-seed generator.
func makeTestSignal(n int) []float64 {
	rng := rand.New(rand.NewPCG(42, 0))
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = rng.Float64()*2 - 1
	}
	return sig
}

// runInBlocks feeds signal through p using the block lengths in sizes,
// cycling through them until the signal is consumed.
func runInBlocks(t *testing.T, p *Partitioned, signal []float64, sizes []int) []float64 {
	t.Helper()

	out := make([]float64, len(signal))
	pos := 0
	for i := 0; pos < len(signal); i++ {
		n := min(sizes[i%len(sizes)], len(signal)-pos)
		if err := p.ProcessBlock(signal[pos:pos+n], out[pos:pos+n]); err != nil {
			t.Fatalf("ProcessBlock: %v", err)
		}
		pos += n
	}

	return out
}

func requireMatchesDirect(t *testing.T, got, signal, kernel []float64) {
	t.Helper()

	ref, err := Direct(signal, kernel)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}

	for i := range got {
		if math.Abs(got[i]-ref[i]) > 1e-9 {
			t.Fatalf("sample %d: got %.12f, want %.12f", i, got[i], ref[i])
		}
	}
}

func TestPartitioned_MatchesDirect(t *testing.T) {
	signal := makeTestSignal(3000)

	tests := []struct {
		name      string
		kernelLen int
		partSize  int
		blocks    []int
	}{
		{name: "short kernel", kernelLen: 17, partSize: 64, blocks: []int{64}},
		{name: "one partition exact", kernelLen: 64, partSize: 64, blocks: []int{64}},
		{name: "multi partition", kernelLen: 1024, partSize: 128, blocks: []int{128}},
		{name: "ragged kernel", kernelLen: 1000, partSize: 256, blocks: []int{256}},
		{name: "small blocks", kernelLen: 500, partSize: 128, blocks: []int{32}},
		{name: "irregular blocks", kernelLen: 700, partSize: 128, blocks: []int{1, 100, 37, 128, 5, 64}},
		{name: "blocks larger than partition", kernelLen: 300, partSize: 64, blocks: []int{200, 129}},
		{name: "single sample", kernelLen: 40, partSize: 16, blocks: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel := makeDecayKernel(tt.kernelLen)
			p, err := NewPartitioned(kernel, tt.partSize)
			if err != nil {
				t.Fatalf("NewPartitioned: %v", err)
			}

			wantParts := (tt.kernelLen + tt.partSize - 1) / tt.partSize
			if p.Partitions() != wantParts {
				t.Fatalf("Partitions() = %d, want %d", p.Partitions(), wantParts)
			}

			got := runInBlocks(t, p, signal, tt.blocks)
			requireMatchesDirect(t, got, signal, kernel)
		})
	}
}

func TestPartitioned_ZeroLatencyImpulse(t *testing.T) {
	kernel := makeTestSignal(300)
	p, err := NewPartitioned(kernel, 128)
	if err != nil {
		t.Fatalf("NewPartitioned: %v", err)
	}

	if p.Latency() != 0 {
		t.Fatalf("Latency() = %d, want 0", p.Latency())
	}

	// The first output sample must already carry kernel[0].
	in := []float64{1}
	out := []float64{0}
	if err := p.ProcessBlock(in, out); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	if math.Abs(out[0]-kernel[0]) > 1e-12 {
		t.Fatalf("first output = %v, want %v", out[0], kernel[0])
	}

	rest := make([]float64, len(kernel)-1)
	if err := p.ProcessBlock(rest, rest); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	for i, v := range rest {
		if math.Abs(v-kernel[i+1]) > 1e-9 {
			t.Fatalf("ir[%d] = %v, want %v", i+1, v, kernel[i+1])
		}
	}
}

func TestPartitioned_InPlace(t *testing.T) {
	kernel := makeDecayKernel(200)
	signal := makeTestSignal(1000)

	p, err := NewPartitioned(kernel, 64)
	if err != nil {
		t.Fatalf("NewPartitioned: %v", err)
	}

	buf := append([]float64(nil), signal...)
	for pos := 0; pos < len(buf); pos += 50 {
		end := min(pos+50, len(buf))
		if err := p.ProcessBlock(buf[pos:end], buf[pos:end]); err != nil {
			t.Fatalf("ProcessBlock: %v", err)
		}
	}

	requireMatchesDirect(t, buf, signal, kernel)
}

func TestPartitioned_Reset(t *testing.T) {
	kernel := makeDecayKernel(300)
	signal := makeTestSignal(512)

	p, err := NewPartitioned(kernel, 64)
	if err != nil {
		t.Fatalf("NewPartitioned: %v", err)
	}

	first := runInBlocks(t, p, signal, []int{48})
	p.Reset()
	second := runInBlocks(t, p, signal, []int{48})

	for i := range first {
		if math.Abs(first[i]-second[i]) > 1e-12 {
			t.Fatalf("sample %d differs after Reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestPartitioned_Errors(t *testing.T) {
	if _, err := NewPartitioned(nil, 64); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("want ErrEmptyKernel, got %v", err)
	}

	for _, size := range []int{0, -64, 100} {
		if _, err := NewPartitioned([]float64{1}, size); !errors.Is(err, ErrInvalidBlockSize) {
			t.Fatalf("partition %d: want ErrInvalidBlockSize, got %v", size, err)
		}
	}

	p, err := NewPartitioned([]float64{1, 0.5}, 16)
	if err != nil {
		t.Fatalf("NewPartitioned: %v", err)
	}
	if err := p.ProcessBlock(make([]float64, 4), make([]float64, 3)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
	if err := p.ProcessBlock(nil, nil); err != nil {
		t.Fatalf("empty block: %v", err)
	}
}

func TestPartitioned_Accessors(t *testing.T) {
	p, err := NewPartitioned(makeDecayKernel(1024), 256)
	if err != nil {
		t.Fatalf("NewPartitioned: %v", err)
	}
	if p.PartitionSize() != 256 || p.KernelLen() != 1024 || p.Partitions() != 4 {
		t.Fatalf("accessors = (%d, %d, %d), want (256, 1024, 4)",
			p.PartitionSize(), p.KernelLen(), p.Partitions())
	}
}

func BenchmarkPartitioned_1024Kernel_512Block(b *testing.B) {
	p, err := NewPartitioned(makeDecayKernel(1024), 512)
	if err != nil {
		b.Fatal(err)
	}
	buf := makeTestSignal(512)

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()

	for b.Loop() {
		_ = p.ProcessBlock(buf, buf)
	}
}
