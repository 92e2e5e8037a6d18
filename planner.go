package fxput

import "fmt"

const (
	// DefaultMultiChunkThreshold is the file size from which a file is
	// uploaded in parallel chunks.
	DefaultMultiChunkThreshold int64 = 32 << 20
	// ChunkFanOut is the number of equal base chunks of a multi-chunk file.
	ChunkFanOut = 3
	// DefaultBufferSize is the size of the copy buffer of every chunk task.
	DefaultBufferSize = 4 << 20
)

// StrategyKind is the way a file is uploaded.
type StrategyKind int

const (
	// StrategyEmpty creates a zero-byte data object.
	StrategyEmpty StrategyKind = iota
	// StrategySingleStream copies the file over one connection.
	StrategySingleStream
	// StrategyMultiChunk pre-creates the data object then copies
	// ChunkFanOut equal chunks, plus a remainder chunk, in parallel.
	StrategyMultiChunk
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyEmpty:
		return "empty"
	case StrategySingleStream:
		return "single-stream"
	case StrategyMultiChunk:
		return "multi-chunk"
	default:
		return fmt.Sprintf("strategy(%d)", int(k))
	}
}

// Strategy is the upload plan of one file. Chunks tile [0, size) without
// gaps or overlaps, in ascending offset order.
type Strategy struct {
	Kind   StrategyKind
	Chunks []ChunkSpec
}

// PlanFile decides how a file of size bytes is uploaded. A threshold of
// zero or less means DefaultMultiChunkThreshold.
func PlanFile(unit TransferUnit, size, threshold int64) (strategy Strategy, err error) {
	if size < 0 {
		return strategy, fmt.Errorf("%w: negative size %d for %s", ErrIOUnavailable, size, unit.Source)
	}
	if threshold <= 0 {
		threshold = DefaultMultiChunkThreshold
	}
	// a threshold below the fan-out would give empty base chunks
	threshold = max(threshold, ChunkFanOut)

	chunk := func(offset, length int64) ChunkSpec {
		return ChunkSpec{
			Source:      unit.Source,
			Destination: unit.Destination,
			Offset:      offset,
			Length:      length,
		}
	}

	switch {
	case size == 0:
		strategy.Kind = StrategyEmpty
	case size < threshold:
		strategy.Kind = StrategySingleStream
		strategy.Chunks = []ChunkSpec{chunk(0, size)}
	default:
		strategy.Kind = StrategyMultiChunk
		base := size / ChunkFanOut
		strategy.Chunks = make([]ChunkSpec, 0, ChunkFanOut+1)
		for i := range int64(ChunkFanOut) {
			strategy.Chunks = append(strategy.Chunks, chunk(i*base, base))
		}
		if rest := size - ChunkFanOut*base; rest > 0 {
			strategy.Chunks = append(strategy.Chunks, chunk(ChunkFanOut*base, rest))
		}
	}
	return
}
