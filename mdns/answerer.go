package mdns

import (
	"context"
	"net"

	"github.com/dogmatiq/dissolve/wire"
)

// Answerer provides answers to DNS questions received over multicast.
// Implementations must allow concurrent calls to Answer.
type Answerer interface {
	// Answer populates a to answer q.
	Answer(ctx context.Context, q *Question, a *Answer) error
}

// Question is a single DNS question asked of an Answerer.
type Question struct {
	wire.Question

	Query     *wire.Message
	Interface net.Interface
}

// Answer accumulates the records an Answerer contributes in reply to a
// Question, split by record-set scope.
type Answer struct {
	// Unique holds records belonging to a record set that this responder
	// owns exclusively: it should be the only responder answering for
	// this name/type/class tuple.
	//
	// See https://tools.ietf.org/html/rfc6762#section-2.
	Unique ResponseSections

	// Shared holds records belonging to a record set that multiple
	// responders may legitimately answer for.
	//
	// See https://tools.ietf.org/html/rfc6762#section-2.
	Shared ResponseSections
}

// appendToMessage appends the answer's records to m. Records in Unique are
// marked with the mDNS cache-flush bit unless the reply is going to a
// legacy querier, which would not understand it.
func (a *Answer) appendToMessage(m *wire.Message, legacy bool) {
	if legacy {
		m.Answers = append(m.Answers, a.Unique.AnswerSection...)
		m.Authorities = append(m.Authorities, a.Unique.AuthoritySection...)
		m.Additional = append(m.Additional, a.Unique.AdditionalSection...)
	} else {
		m.Answers = append(m.Answers, flush(a.Unique.AnswerSection)...)
		m.Authorities = append(m.Authorities, flush(a.Unique.AuthoritySection)...)
		m.Additional = append(m.Additional, flush(a.Unique.AdditionalSection)...)
	}

	m.Answers = append(m.Answers, a.Shared.AnswerSection...)
	m.Authorities = append(m.Authorities, a.Shared.AuthoritySection...)
	m.Additional = append(m.Additional, a.Shared.AdditionalSection...)
}

// flush returns a copy of records with CacheFlush set.
func flush(records []wire.ResourceRecord) []wire.ResourceRecord {
	out := make([]wire.ResourceRecord, len(records))
	for i, r := range records {
		r.CacheFlush = true
		out[i] = r
	}
	return out
}

// ResponseSections holds the records an Answerer wants to place into each
// section of a response.
type ResponseSections struct {
	AnswerSection     []wire.ResourceRecord
	AuthoritySection  []wire.ResourceRecord
	AdditionalSection []wire.ResourceRecord
}

// IsEmpty returns true if none of the sections contain any records.
func (rs *ResponseSections) IsEmpty() bool {
	return len(rs.AnswerSection) == 0 &&
		len(rs.AuthoritySection) == 0 &&
		len(rs.AdditionalSection) == 0
}

// Answer appends records to the answer section.
func (rs *ResponseSections) Answer(records ...wire.ResourceRecord) {
	rs.AnswerSection = append(rs.AnswerSection, records...)
}

// Authority appends records to the authority section.
func (rs *ResponseSections) Authority(records ...wire.ResourceRecord) {
	rs.AuthoritySection = append(rs.AuthoritySection, records...)
}

// Additional appends records to the additional section.
func (rs *ResponseSections) Additional(records ...wire.ResourceRecord) {
	rs.AdditionalSection = append(rs.AdditionalSection, records...)
}

// UnionAnswerer combines the answers of multiple Answerers into one.
type UnionAnswerer []Answerer

// Answer populates a with the combined answers of every Answerer in the
// union.
func (u UnionAnswerer) Answer(ctx context.Context, q *Question, a *Answer) error {
	for _, x := range u {
		if err := x.Answer(ctx, q, a); err != nil {
			return err
		}
	}
	return nil
}
