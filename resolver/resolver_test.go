package resolver_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/resolver"
	"github.com/dogmatiq/dissolve/wire"
)

// fakeUnicast answers every query from a map of canned replies keyed by the
// question name, so Resolver's routing and projection logic can be tested
// without a real socket.
type fakeUnicast struct {
	replies map[string]*wire.Message
	queried []string
}

func (f *fakeUnicast) Query(ctx context.Context, req *wire.Message, ns string) (*wire.Message, error) {
	q := req.Questions[0]
	f.queried = append(f.queried, ns)

	if res, ok := f.replies[q.Name]; ok {
		return res, nil
	}

	return &wire.Message{Header: wire.Header{QR: true, Rcode: wire.RcodeNameError}}, nil
}

var _ = Describe("Resolver", func() {
	var (
		cli *fakeUnicast
		r   *resolver.Resolver
	)

	BeforeEach(func() {
		cli = &fakeUnicast{replies: map[string]*wire.Message{}}
		r = &resolver.Resolver{
			Unicast: cli,
			Config: &resolver.Config{
				Servers: []string{"203.0.113.1"},
				Port:    "53",
				Ndots:   1,
			},
		}
	})

	It("projects A answers into socket addresses with the requested port", func() {
		cli.replies["example.com."] = &wire.Message{
			Header: wire.Header{QR: true},
			Answers: []wire.ResourceRecord{
				{Name: "example.com.", Type: wire.TypeA, Class: wire.ClassInternet, Data: wire.ARecord{Address: [4]byte{93, 184, 216, 34}}},
			},
		}

		addrs, err := r.QueryA(context.Background(), "example.com", 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(addrs).To(HaveLen(1))
		Expect(addrs[0].IP.String()).To(Equal("93.184.216.34"))
		Expect(addrs[0].Port).To(Equal(80))
	})

	It("returns NotFoundError when no matching variant is present", func() {
		cli.replies["example.com."] = &wire.Message{Header: wire.Header{QR: true}}

		_, err := r.QueryA(context.Background(), "example.com", 80)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&resolver.NotFoundError{}))
	})

	It("sorts SRV answers by priority before returning them", func() {
		cli.replies["_svc._tcp.example.com."] = &wire.Message{
			Header: wire.Header{QR: true},
			Answers: []wire.ResourceRecord{
				{Name: "_svc._tcp.example.com.", Type: wire.TypeSRV, Class: wire.ClassInternet, Data: wire.SRVRecord{Priority: 20, Target: "b"}},
				{Name: "_svc._tcp.example.com.", Type: wire.TypeSRV, Class: wire.ClassInternet, Data: wire.SRVRecord{Priority: 10, Target: "a"}},
			},
		}

		records, err := r.QuerySRV(context.Background(), "_svc._tcp.example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].Target).To(Equal("a"))
		Expect(records[1].Target).To(Equal("b"))
	})

	It("routes PTR queries for a literal IP through its arpa form", func() {
		cli.replies["34.216.184.93.in-addr.arpa."] = &wire.Message{
			Header: wire.Header{QR: true},
			Answers: []wire.ResourceRecord{
				{Name: "34.216.184.93.in-addr.arpa.", Type: wire.TypePTR, Class: wire.ClassInternet, Data: wire.PTRRecord{Target: "example.com."}},
			},
		}

		names, err := r.QueryPTR(context.Background(), "93.184.216.34")
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(ConsistOf("example.com."))
	})

	It("routes names ending in .local to the multicast client", func() {
		mc := &recordingMulticast{
			reply: &wire.Message{
				Header: wire.Header{QR: true},
				Answers: []wire.ResourceRecord{
					{Name: "printer.local.", Type: wire.TypeA, Class: wire.ClassInternet, Data: wire.ARecord{Address: [4]byte{10, 0, 0, 5}}},
				},
			},
		}
		r.Multicast = mc

		addrs, err := r.QueryA(context.Background(), "printer.local", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(addrs).To(HaveLen(1))
		Expect(mc.called).To(BeTrue())
		Expect(cli.queried).To(BeEmpty())
	})
})

type recordingMulticast struct {
	called bool
	reply  *wire.Message
}

func (m *recordingMulticast) Query(ctx context.Context, req *wire.Message, wait time.Duration) (*wire.Message, error) {
	m.called = true
	return m.reply, nil
}
