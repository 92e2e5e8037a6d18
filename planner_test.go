package fxput

import (
	"github.com/samber/lo"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PlanFile", func() {
	unit := TransferUnit{Source: "/data/file.bin", Destination: "/zone/home/file.bin", Kind: UnitFile}

	expectTiling := func(chunks []ChunkSpec, size int64) {
		var next int64
		for _, c := range chunks {
			Expect(c.Offset).To(Equal(next), "chunks must be contiguous")
			Expect(c.Length).To(BeNumerically(">", 0))
			Expect(c.Source).To(Equal(unit.Source))
			Expect(c.Destination).To(Equal(unit.Destination))
			next = c.End()
		}
		Expect(next).To(Equal(size))
		Expect(lo.SumBy(chunks, func(c ChunkSpec) int64 { return c.Length })).To(Equal(size))
	}

	It("should plan an empty file without chunks", func() {
		strategy, err := PlanFile(unit, 0, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(strategy.Kind).To(Equal(StrategyEmpty))
		Expect(strategy.Chunks).To(BeEmpty())
	})

	DescribeTable("single stream below the threshold",
		func(size int64) {
			strategy, err := PlanFile(unit, size, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(strategy.Kind).To(Equal(StrategySingleStream))
			Expect(strategy.Chunks).To(HaveLen(1))
			expectTiling(strategy.Chunks, size)
		},
		Entry("one byte", int64(1)),
		Entry("just below 32 MiB", DefaultMultiChunkThreshold-1),
	)

	DescribeTable("multi chunk from the threshold",
		func(size int64, expectedChunks int) {
			strategy, err := PlanFile(unit, size, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(strategy.Kind).To(Equal(StrategyMultiChunk))
			Expect(strategy.Chunks).To(HaveLen(expectedChunks))
			expectTiling(strategy.Chunks, size)
			base := size / ChunkFanOut
			for _, c := range strategy.Chunks[:ChunkFanOut] {
				Expect(c.Length).To(Equal(base))
			}
		},
		Entry("32 MiB splits evenly plus remainder", DefaultMultiChunkThreshold, 4),
		Entry("100 MiB + 7", int64(100<<20+7), 4),
		Entry("multiple of three", int64(99<<20), 3),
	)

	It("should put the remainder in a fourth chunk", func() {
		size := int64(100<<20 + 7)
		strategy, err := PlanFile(unit, size, 0)
		Expect(err).ToNot(HaveOccurred())
		last := strategy.Chunks[3]
		Expect(last.Offset).To(Equal(3 * (size / 3)))
		Expect(last.Length).To(Equal(size % 3))
	})

	It("should honor a custom threshold", func() {
		strategy, err := PlanFile(unit, 10, 10)
		Expect(err).ToNot(HaveOccurred())
		Expect(strategy.Kind).To(Equal(StrategyMultiChunk))
		Expect(strategy.Chunks).To(HaveLen(4))
		expectTiling(strategy.Chunks, 10)

		strategy, err = PlanFile(unit, 9, 10)
		Expect(err).ToNot(HaveOccurred())
		Expect(strategy.Kind).To(Equal(StrategySingleStream))
	})

	It("should never produce empty base chunks", func() {
		strategy, err := PlanFile(unit, 2, 1)
		Expect(err).ToNot(HaveOccurred())
		Expect(strategy.Kind).To(Equal(StrategySingleStream))
		expectTiling(strategy.Chunks, 2)
	})

	It("should reject a negative size", func() {
		_, err := PlanFile(unit, -1, 0)
		Expect(err).To(MatchError(ErrIOUnavailable))
	})
})
