package wire_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/wire"
)

var _ = Describe("Header", func() {
	It("encodes the literal header round-trip scenario", func() {
		m := &wire.Message{
			Header: wire.Header{
				ID: 0x1234,
				RD: true,
			},
			Questions: []wire.Question{{}},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		// 12 34 | 01 00 | 00 01 | 00 00 | 00 00 | 00 00, followed by the
		// root-name, zero-type, zero-class question.
		Expect(buf[:12]).To(Equal([]byte{
			0x12, 0x34,
			0x01, 0x00,
			0x00, 0x01,
			0x00, 0x00,
			0x00, 0x00,
			0x00, 0x00,
		}))

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Header).To(Equal(m.Header))
	})

	It("round-trips every flag bit independently", func() {
		h := wire.Header{
			ID:     0xBEEF,
			QR:     true,
			Opcode: wire.OpcodeStatus,
			AA:     true,
			TC:     true,
			RD:     true,
			RA:     true,
			Rcode:  wire.RcodeRefused,
		}

		m := &wire.Message{Header: h}
		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Header).To(Equal(h))
	})

	It("fails to decode a buffer shorter than 12 bytes", func() {
		_, err := wire.Decode([]byte{0x00, 0x01})
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&wire.ProtocolError{}))
	})
})
