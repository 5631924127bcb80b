package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classifier", func() {
	var classifier Classifier

	DescribeTable("Classify",
		func(merchant, text string, expected Category) {
			Expect(classifier.Classify(merchant, text)).To(Equal(expected))
		},
		Entry("food from merchant", "JOE'S PIZZA", "", CategoryFood),
		Entry("food from raw text only", "ACME", "1 burger 5.00", CategoryFood),
		Entry("groceries from merchant", "SAFEWAY SUPERMARKET", "", CategoryGroceries),
		Entry("whole foods counts as food first", "WHOLE FOODS MARKET", "", CategoryFood),
		Entry("groceries keyword in text only is ignored", "ACME", "fresh market produce", CategoryOther),
		Entry("transport from merchant", "SHELL GAS", "", CategoryTransport),
		Entry("transport keyword in text only is ignored", "ACME", "parking validated", CategoryOther),
		Entry("entertainment from merchant", "AMC CINEMA", "", CategoryEntertainment),
		Entry("entertainment from raw text", "ACME", "movie ticket", CategoryEntertainment),
		Entry("shopping from merchant", "TARGET", "", CategoryShopping),
		Entry("shopping keyword in text only is ignored", "ACME", "store 42", CategoryOther),
		Entry("food wins over groceries", "TRADER CAFE", "", CategoryFood),
		Entry("food in text wins over merchant shopping", "WALMART", "food court", CategoryFood),
		Entry("nothing matches", "ACME", "widgets", CategoryOther),
		Entry("unknown merchant with no text", UnknownMerchant, "", CategoryOther),
	)
})

var _ = Describe("ParseCategory", func() {
	It("accepts every known category regardless of case", func() {
		for _, c := range Categories() {
			parsed, err := ParseCategory("  " + string(c) + " ")
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(c))
		}
	})

	It("rejects unknown identifiers", func() {
		_, err := ParseCategory("Meals")
		Expect(err).To(HaveOccurred())
	})

	It("lists the ten categories", func() {
		Expect(Categories()).To(HaveLen(10))
	})
})
