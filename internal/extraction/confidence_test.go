package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scorer", func() {
	var scorer Scorer

	BeforeEach(func() {
		scorer = NewScorer(fixedTimeSource{now: testNow})
	})

	DescribeTable("Score",
		func(sig Signals, expected float64) {
			Expect(scorer.Score(sig)).To(Equal(expected))
		},
		Entry("nothing found", Signals{Merchant: UnknownMerchant, Date: day(2025, time.June, 1)}, 0.5),
		Entry("amount only", Signals{Merchant: UnknownMerchant, AmountFound: true, Date: day(2025, time.June, 1)}, 0.7),
		Entry("merchant and amount", Signals{Merchant: "CVS", AmountFound: true, Date: day(2025, time.June, 1)}, 0.9),
		Entry("amount and real date", Signals{Merchant: UnknownMerchant, AmountFound: true, Date: day(2024, time.May, 2)}, 0.8),
		Entry("every signal", Signals{Merchant: "CVS", AmountFound: true, Date: day(2024, time.May, 2)}, 1.0),
	)

	It("treats a date later on the same day as today", func() {
		sig := Signals{Merchant: "CVS", AmountFound: true, Date: testNow.Add(time.Hour)}
		Expect(scorer.Score(sig)).To(Equal(0.9))
	})

	It("is monotonic and never exceeds 1.0", func() {
		merchants := []string{UnknownMerchant, "CVS"}
		amounts := []bool{false, true}
		dates := []time.Time{day(2025, time.June, 1), day(2024, time.May, 2)}

		for mi, m := range merchants {
			for ai, a := range amounts {
				for di, d := range dates {
					score := scorer.Score(Signals{Merchant: m, AmountFound: a, Date: d})
					Expect(score).To(BeNumerically("<=", 1.0))
					Expect(score).To(BeNumerically(">=", 0.5))

					// adding any one missing signal must not lower the score
					if mi == 0 {
						Expect(scorer.Score(Signals{Merchant: merchants[1], AmountFound: a, Date: d})).To(BeNumerically(">=", score))
					}
					if ai == 0 {
						Expect(scorer.Score(Signals{Merchant: m, AmountFound: true, Date: d})).To(BeNumerically(">=", score))
					}
					if di == 0 {
						Expect(scorer.Score(Signals{Merchant: m, AmountFound: a, Date: dates[1]})).To(BeNumerically(">=", score))
					}
				}
			}
		}
	})
})
