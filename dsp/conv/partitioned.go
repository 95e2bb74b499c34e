package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/c128"
)

// Partitioned is a zero-latency uniformly partitioned overlap-save convolver.
//
// With partition size P the FFT size is 2P. The time-domain frame holds the
// previous P input samples followed by the current, possibly partial,
// partition. Completed frame spectra are kept in a ring (the frequency-domain
// delay line) so each kernel partition k is applied to the frame from k
// partitions ago.
//
// A Partitioned is not safe for concurrent use.
type Partitioned struct {
	partSize  int
	fftSize   int
	kernelLen int

	plan *algofft.Plan[complex128]

	kernelSpectra [][]complex128 // H_k, one per partition
	fdl           [][]complex128 // past frame spectra, ring indexed by head
	head          int

	frame  []float64    // [previous P | current P]
	inPos  int          // samples filled in the current partition
	tail   []complex128 // sum over k >= 1 of X_{m-k} * H_k
	work   []complex128 // time-domain FFT input / IFFT output
	spec   []complex128 // spectrum of the current frame
	prod   []complex128
	tailOK bool
}

// NewPartitioned prepares a convolver for kernel with the given partition size.
// partitionSize must be a positive power of two; a good choice is the smallest
// power of two not below the host's maximum block size.
func NewPartitioned(kernel []float64, partitionSize int) (*Partitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if partitionSize <= 0 || partitionSize&(partitionSize-1) != 0 {
		return nil, fmt.Errorf("%w: partition size %d is not a positive power of two", ErrInvalidBlockSize, partitionSize)
	}

	fftSize := 2 * partitionSize

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	parts := (len(kernel) + partitionSize - 1) / partitionSize

	p := &Partitioned{
		partSize:      partitionSize,
		fftSize:       fftSize,
		kernelLen:     len(kernel),
		plan:          plan,
		kernelSpectra: make([][]complex128, parts),
		fdl:           make([][]complex128, parts),
		frame:         make([]float64, fftSize),
		tail:          make([]complex128, fftSize),
		work:          make([]complex128, fftSize),
		spec:          make([]complex128, fftSize),
		prod:          make([]complex128, fftSize),
	}

	for k := range parts {
		clear(p.work)

		chunk := kernel[k*partitionSize : min((k+1)*partitionSize, len(kernel))]
		for i, v := range chunk {
			p.work[i] = complex(v, 0)
		}

		p.kernelSpectra[k] = make([]complex128, fftSize)
		if err := plan.Forward(p.kernelSpectra[k], p.work); err != nil {
			return nil, fmt.Errorf("conv: failed to compute kernel partition %d spectrum: %w", k, err)
		}

		p.fdl[k] = make([]complex128, fftSize)
	}

	return p, nil
}

// ProcessBlock convolves input into output. Both must have the same length,
// which may be anything including zero. input and output may alias.
func (p *Partitioned) ProcessBlock(input, output []float64) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: input %d, output %d", ErrLengthMismatch, len(input), len(output))
	}

	for len(input) > 0 {
		n := min(p.partSize-p.inPos, len(input))
		if !p.tailOK {
			p.accumulateTail()
		}

		copy(p.frame[p.partSize+p.inPos:], input[:n])

		if err := p.convolveFrame(); err != nil {
			return err
		}

		base := p.partSize + p.inPos
		for i := range n {
			output[i] = real(p.work[base+i])
		}

		p.inPos += n
		if p.inPos == p.partSize {
			p.advance()
		}

		input = input[n:]
		output = output[n:]
	}

	return nil
}

// convolveFrame transforms the current frame into p.spec and leaves the
// time-domain result of tail + X*H_0 in p.work.
func (p *Partitioned) convolveFrame() error {
	for i, v := range p.frame {
		p.work[i] = complex(v, 0)
	}

	if err := p.plan.Forward(p.spec, p.work); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	c128.Mul(p.prod, p.spec, p.kernelSpectra[0])
	for i, t := range p.tail {
		p.prod[i] += t
	}

	if err := p.plan.Inverse(p.work, p.prod); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	return nil
}

// accumulateTail sums the contributions of every kernel partition but the
// first; they depend only on completed frames and stay fixed for the
// whole partition.
func (p *Partitioned) accumulateTail() {
	clear(p.tail)

	parts := len(p.kernelSpectra)
	for k := 1; k < parts; k++ {
		idx := (p.head - k + parts) % parts
		c128.Mul(p.prod, p.fdl[idx], p.kernelSpectra[k])

		for i, v := range p.prod {
			p.tail[i] += v
		}
	}

	p.tailOK = true
}

// advance stores the completed frame spectrum and slides the frame by one
// partition.
func (p *Partitioned) advance() {
	copy(p.fdl[p.head], p.spec)
	p.head = (p.head + 1) % len(p.fdl)

	copy(p.frame[:p.partSize], p.frame[p.partSize:])
	clear(p.frame[p.partSize:])

	p.inPos = 0
	p.tailOK = false
}

// Reset clears all input history.
func (p *Partitioned) Reset() {
	clear(p.frame)
	clear(p.tail)

	for _, s := range p.fdl {
		clear(s)
	}

	p.head = 0
	p.inPos = 0
	p.tailOK = false
}

// PartitionSize returns the partition length P.
func (p *Partitioned) PartitionSize() int { return p.partSize }

// Partitions returns the number of kernel partitions.
func (p *Partitioned) Partitions() int { return len(p.kernelSpectra) }

// KernelLen returns the kernel length in samples.
func (p *Partitioned) KernelLen() int { return p.kernelLen }

// Latency returns the input-to-output delay in samples, always zero.
func (p *Partitioned) Latency() int { return 0 }
