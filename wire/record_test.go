package wire_test

import (
	"encoding/binary"
	"net"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/wire"
)

var _ = Describe("resource records", func() {
	It("round-trips an A record matching the literal scenario", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{
					Name:  "example.com",
					Type:  wire.TypeA,
					Class: wire.ClassInternet,
					TTL:   60,
					Data:  wire.ARecord{Address: [4]byte{0x5D, 0xB8, 0xD8, 0x22}},
				},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		rec := decoded.Answers[0].Data.(wire.ARecord)
		Expect(rec.IP().String()).To(Equal("93.184.216.34"))
	})

	It("round-trips the literal AAAA scenario", func() {
		addr := net.ParseIP("2001:db8::1").To16()
		var rec wire.AAAARecord
		copy(rec.Address[:], addr)

		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{Name: "host.example.com", Type: wire.TypeAAAA, Class: wire.ClassInternet, TTL: 60, Data: rec},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		got := decoded.Answers[0].Data.(wire.AAAARecord)
		Expect(got.IP().String()).To(Equal("2001:db8::1"))
	})

	It("splits TXT records on a single '='", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{Name: "svc.local", Type: wire.TypeTXT, Class: wire.ClassInternet, Data: wire.TXTRecord{Raw: "path=/index"}},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		rec := decoded.Answers[0].Data.(wire.TXTRecord)
		Expect(rec.Key).To(Equal("path"))
		Expect(rec.Value).To(Equal("/index"))
	})

	It("leaves key/value empty, but preserves Raw, when there is no single '='", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{Name: "svc.local", Type: wire.TypeTXT, Class: wire.ClassInternet, Data: wire.TXTRecord{Raw: "a=b=c"}},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		rec := decoded.Answers[0].Data.(wire.TXTRecord)
		Expect(rec.Key).To(Equal(""))
		Expect(rec.Value).To(Equal(""))
		Expect(rec.Raw).To(Equal("a=b=c"))
	})

	It("round-trips an SRV record", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{
					Name:  "_http._tcp.local",
					Type:  wire.TypeSRV,
					Class: wire.ClassInternet,
					Data:  wire.SRVRecord{Priority: 1, Weight: 2, Port: 8080, Target: "host.local"},
				},
			},
		}

		buf, err := m.Encode(true)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		rec := decoded.Answers[0].Data.(wire.SRVRecord)
		Expect(rec).To(Equal(wire.SRVRecord{Priority: 1, Weight: 2, Port: 8080, Target: "host.local"}))
	})

	It("round-trips the literal mDNS PTR scenario", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{
					Name:  "_fake._tcp.local",
					Type:  wire.TypePTR,
					Class: wire.ClassInternet,
					TTL:   10,
					Data:  wire.PTRRecord{Target: "test._fake._tcp.local"},
				},
			},
		}

		buf, err := m.Encode(true)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Answers[0].TTL).To(Equal(uint32(10)))
		Expect(decoded.Answers[0].Data.(wire.PTRRecord).Target).To(Equal("test._fake._tcp.local"))
	})

	It("decodes unknown record types as Other, preserving raw bytes", func() {
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{Name: "x.local", Type: 999, Class: wire.ClassInternet, Data: wire.OtherRecord{RRType: 999, Raw: []byte{1, 2, 3}}},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		rec := decoded.Answers[0].Data.(wire.OtherRecord)
		Expect(rec.RRType).To(Equal(uint16(999)))
		Expect(rec.Raw).To(Equal([]byte{1, 2, 3}))
		Expect(decoded.Answers[0].Type).To(Equal(uint16(999)))
	})

	It("stays in sync across consecutive records", func() {
		// The reader moves past each record's RDATA by its RDLENGTH, so the
		// second record must decode from the byte right after the first
		// record's payload.
		m := &wire.Message{
			Answers: []wire.ResourceRecord{
				{Name: "a.local", Type: wire.TypeA, Class: wire.ClassInternet, Data: wire.ARecord{Address: [4]byte{1, 2, 3, 4}}},
				{Name: "b.local", Type: wire.TypeA, Class: wire.ClassInternet, Data: wire.ARecord{Address: [4]byte{5, 6, 7, 8}}},
			},
		}
		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Answers).To(HaveLen(2))
		Expect(decoded.Answers[1].Data.(wire.ARecord).Address).To(Equal([4]byte{5, 6, 7, 8}))
	})

	DescribeTable("mDNS class/flag round-trip",
		func(class uint16, flag bool) {
			m := &wire.Message{
				Answers: []wire.ResourceRecord{
					{Name: "x.local", Type: wire.TypeA, Class: class, CacheFlush: flag, Data: wire.ARecord{}},
				},
			}

			buf, err := m.Encode(false)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := wire.Decode(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Answers[0].Class).To(Equal(class))
			Expect(decoded.Answers[0].CacheFlush).To(Equal(flag))
		},
		Entry("class 1, flag unset", uint16(1), false),
		Entry("class 1, flag set", uint16(1), true),
		Entry("class 3, flag unset", uint16(3), false),
		Entry("class 3, flag set", uint16(3), true),
		Entry("class 4, flag unset", uint16(4), false),
		Entry("class 4, flag set", uint16(4), true),
	)

	It("round-trips the unicast-response bit on questions", func() {
		m := &wire.Message{
			Questions: []wire.Question{
				{Name: "x.local", Type: wire.TypeA, Class: wire.ClassInternet, UnicastResponse: true},
			},
		}

		buf, err := m.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Questions[0].UnicastResponse).To(BeTrue())
		Expect(decoded.Questions[0].Class).To(Equal(wire.ClassInternet))
	})

	It("parses an SOA record on demand from its raw payload", func() {
		raw := &wire.Message{
			Answers: []wire.ResourceRecord{
				{
					Name:  "example.com",
					Type:  wire.TypeSOA,
					Class: wire.ClassInternet,
					Data:  wire.OtherRecord{RRType: wire.TypeSOA, Raw: soaRDATA()},
				},
			},
		}

		buf, err := raw.Encode(false)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := wire.Decode(buf)
		Expect(err).NotTo(HaveOccurred())

		other := decoded.Answers[0].Data.(wire.OtherRecord)
		soa, err := wire.ParseSOA(other)
		Expect(err).NotTo(HaveOccurred())
		Expect(soa.MNAME).To(Equal("ns1.example.com"))
		Expect(soa.RNAME).To(Equal("admin.example.com"))
		Expect(soa.Serial).To(Equal(uint32(2024010100)))
		Expect(soa.Refresh).To(Equal(uint32(3600)))
		Expect(soa.Retry).To(Equal(uint32(600)))
		Expect(soa.Expire).To(Equal(uint32(604800)))
		Expect(soa.Minimum).To(Equal(uint32(300)))
	})

	It("fails to parse a too-short SOA payload", func() {
		_, err := wire.ParseSOA(wire.OtherRecord{RRType: wire.TypeSOA, Raw: []byte{0}})
		Expect(err).To(HaveOccurred())
	})
})

// soaRDATA hand-encodes an uncompressed SOA RDATA payload: MNAME, RNAME, then
// five 32-bit fields, per RFC 1035 section 3.3.13.
func soaRDATA() []byte {
	var buf []byte
	buf = append(buf, encodeName("ns1.example.com")...)
	buf = append(buf, encodeName("admin.example.com")...)

	var n [4]byte
	for _, v := range []uint32{2024010100, 3600, 600, 604800, 300} {
		binary.BigEndian.PutUint32(n[:], v)
		buf = append(buf, n[:]...)
	}
	return buf
}

// encodeName renders a dotted name as uncompressed length-prefixed labels
// terminated by a zero byte.
func encodeName(name string) []byte {
	var buf []byte
	for _, label := range splitDots(name) {
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	return append(buf, 0)
}

func splitDots(name string) []string {
	var labels []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			labels = append(labels, name[start:i])
			start = i + 1
		}
	}
	labels = append(labels, name[start:])
	return labels
}
