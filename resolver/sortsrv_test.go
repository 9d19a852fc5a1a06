package resolver_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/resolver"
	"github.com/dogmatiq/dissolve/wire"
)

var _ = Describe("SortSRV", func() {
	It("orders records by ascending priority", func() {
		records := []wire.SRVRecord{
			{Priority: 20, Weight: 0, Target: "b"},
			{Priority: 10, Weight: 0, Target: "a"},
			{Priority: 30, Weight: 0, Target: "c"},
		}

		resolver.SortSRV(records)

		Expect(records[0].Target).To(Equal("a"))
		Expect(records[1].Target).To(Equal("b"))
		Expect(records[2].Target).To(Equal("c"))
	})

	It("keeps all records within a priority group together", func() {
		records := []wire.SRVRecord{
			{Priority: 10, Weight: 5, Target: "a"},
			{Priority: 20, Weight: 5, Target: "b"},
			{Priority: 10, Weight: 1, Target: "c"},
		}

		resolver.SortSRV(records)

		Expect(records[0].Priority).To(Equal(uint16(10)))
		Expect(records[1].Priority).To(Equal(uint16(10)))
		Expect(records[2].Priority).To(Equal(uint16(20)))
	})

	It("leaves a single record unchanged", func() {
		records := []wire.SRVRecord{{Priority: 1, Target: "only"}}
		resolver.SortSRV(records)
		Expect(records[0].Target).To(Equal("only"))
	})

	It("is a no-op for an empty slice", func() {
		var records []wire.SRVRecord
		Expect(func() { resolver.SortSRV(records) }).NotTo(Panic())
	})
})
