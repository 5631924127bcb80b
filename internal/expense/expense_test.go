package expense

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/extraction"
)

var _ = Describe("Date", func() {
	It("encodes as YYYY-MM-DD", func() {
		data, err := json.Marshal(NewDate(2024, time.January, 5))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"2024-01-05"`))
	})

	It("decodes YYYY-MM-DD", func() {
		var d Date
		Expect(json.Unmarshal([]byte(`"2024-01-05"`), &d)).To(Succeed())
		Expect(d).To(Equal(NewDate(2024, time.January, 5)))
	})

	It("rejects other layouts", func() {
		var d Date
		Expect(json.Unmarshal([]byte(`"01/05/2024"`), &d)).NotTo(Succeed())
	})

	It("drops the clock", func() {
		Expect(DateOf(time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC))).To(Equal(NewDate(2024, time.January, 5)))
	})
})

var _ = Describe("Expense", func() {
	It("round trips through JSON", func() {
		in := &Expense{
			ID:        "e1",
			Merchant:  "CVS",
			Amount:    money("9.99"),
			Category:  extraction.CategoryHealthcare,
			Date:      NewDate(2024, time.March, 1),
			CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		}
		data, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out Expense
		Expect(json.Unmarshal(data, &out)).To(Succeed())
		Expect(out.Amount.Equal(in.Amount)).To(BeTrue())
		Expect(out.Date).To(Equal(in.Date))
		Expect(out.Category).To(Equal(in.Category))
	})
})

var _ = Describe("Categories", func() {
	It("lists every category with display details", func() {
		categories := Categories()
		Expect(categories).To(HaveLen(10))
		Expect(categories[0]).To(Equal(CategoryInfo{ID: extraction.CategoryFood, Name: "Food & Dining", Icon: "🍔", Color: "#FF6B6B"}))
		for _, c := range categories {
			Expect(c.Name).NotTo(BeEmpty())
			Expect(c.Color).To(MatchRegexp(`^#[0-9A-F]{6}$`))
		}
	})
})

var _ = DescribeTable("sanitizeFilename",
	func(input, expected string) {
		Expect(sanitizeFilename(input)).To(Equal(expected))
	},
	Entry("keeps simple names", "receipt.jpg", "receipt.jpg"),
	Entry("strips punctuation and lowercases the extension", "IMG 2024 (1).JPG", "IMG 2024 1.jpg"),
	Entry("drops directories", "../../etc/passwd", "passwd"),
	Entry("drops windows directories", `C:\Users\me\scan.png`, "scan.png"),
	Entry("falls back when nothing is left", "!!!.png", "receipt.png"),
	Entry("handles empty names", "", "receipt"),
	Entry("truncates long names", "a123456789b123456789c123456789d123456789e123456789f123.pdf", "a123456789b123456789c123456789d123456789e123456789.pdf"),
)
