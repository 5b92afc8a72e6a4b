package sqlengine_test

import (
	"github.com/Alp4ka/pagedscope"
	"github.com/Alp4ka/pagedscope/sqlengine"
	sq "github.com/n-r-w/squirrel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sqlizer", func() {
	It("returns nil for a nil predicate", func() {
		s, err := sqlengine.Sqlizer(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeNil())
	})

	It("renders the rank predicate", func() {
		p, err := pagedscope.RankPredicate(
			pagedscope.Orderings{
				{Column: "users.name", Direction: pagedscope.DirectionDESC},
				{Column: "articles.id", Direction: pagedscope.DirectionASC},
			},
			[]any{"bob", int64(7)},
		)
		Expect(err).NotTo(HaveOccurred())

		s, err := sqlengine.Sqlizer(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(sq.Or{
			sq.Gt{"users.name": "bob"},
			sq.And{sq.Eq{"users.name": "bob"}, sq.Lt{"articles.id": int64(7)}},
		}))

		query, args, err := s.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(Equal("(users.name > ? OR (users.name = ? AND articles.id < ?))"))
		Expect(args).To(Equal([]any{"bob", "bob", int64(7)}))
	})

	It("skips empty operands", func() {
		s, err := sqlengine.Sqlizer(pagedscope.Conjunction{
			pagedscope.Comparison{Column: "id", Operator: pagedscope.OperatorEQ, Value: 1},
			nil,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(sq.And{sq.Eq{"id": 1}}))
	})

	It("rejects unknown operators", func() {
		_, err := sqlengine.Sqlizer(pagedscope.Comparison{Column: "id", Operator: "<=", Value: 1})
		Expect(err).To(HaveOccurred())
	})
})
