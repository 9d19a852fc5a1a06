package mdns_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dogmatiq/dissolve/mdns"
	"github.com/dogmatiq/dissolve/wire"
)

type staticAnswerer struct {
	unique []wire.ResourceRecord
	shared []wire.ResourceRecord
}

func (a staticAnswerer) Answer(ctx context.Context, q *mdns.Question, out *mdns.Answer) error {
	out.Unique.Answer(a.unique...)
	out.Shared.Answer(a.shared...)
	return nil
}

var _ = Describe("UnionAnswerer", func() {
	It("combines the answers of its members", func() {
		u := mdns.UnionAnswerer{
			staticAnswerer{unique: []wire.ResourceRecord{{Name: "a.local"}}},
			staticAnswerer{shared: []wire.ResourceRecord{{Name: "b.local"}}},
		}

		var a mdns.Answer
		Expect(u.Answer(context.Background(), &mdns.Question{}, &a)).To(Succeed())

		Expect(a.Unique.AnswerSection).To(HaveLen(1))
		Expect(a.Shared.AnswerSection).To(HaveLen(1))
	})
})

var _ = Describe("ResponseSections", func() {
	It("reports empty until a record is added", func() {
		var rs mdns.ResponseSections
		Expect(rs.IsEmpty()).To(BeTrue())

		rs.Authority(wire.ResourceRecord{Name: "ns.local"})
		Expect(rs.IsEmpty()).To(BeFalse())
	})
})

