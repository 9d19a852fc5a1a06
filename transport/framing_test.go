package transport_test

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/transport"
	"github.com/dogmatiq/dissolve/wire"
)

var _ = Describe("stream framing", func() {
	It("round-trips a message through WriteFramed/ReadFramed", func() {
		m := &wire.Message{
			Questions: []wire.Question{
				{Name: "example.com", Type: wire.TypeA, Class: wire.ClassInternet},
			},
		}

		var buf bytes.Buffer
		Expect(transport.WriteFramed(&buf, m)).To(Succeed())

		got, err := transport.ReadFramed(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Questions[0].Name).To(Equal("example.com"))
	})

	It("reads exactly one message, leaving a second one in the stream", func() {
		m := &wire.Message{Header: wire.Header{ID: 1}}
		n := &wire.Message{Header: wire.Header{ID: 2}}

		var buf bytes.Buffer
		Expect(transport.WriteFramed(&buf, m)).To(Succeed())
		Expect(transport.WriteFramed(&buf, n)).To(Succeed())

		first, err := transport.ReadFramed(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Header.ID).To(Equal(uint16(1)))

		second, err := transport.ReadFramed(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Header.ID).To(Equal(uint16(2)))
	})
})
