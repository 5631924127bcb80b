package expense

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/extraction"
)

var _ = Describe("Analytics", func() {
	var (
		db      *mockDB
		service *Service
	)

	add := func(id string, category extraction.Category, amount string, date Date) {
		db.expenses[id] = &Expense{ID: id, Merchant: id, Category: category, Amount: money(amount), Date: date}
	}

	BeforeEach(func() {
		db = newMockDB()
		timeSrc := &mockTimeSource{now: time.Date(2024, 3, 20, 18, 30, 0, 0, time.UTC)}
		service = NewServiceWithDeps(db, newMockExtractor(), newMockStorage(), &mockIDGenerator{prefix: "id"}, timeSrc)
	})

	Describe("Summary", func() {
		BeforeEach(func() {
			add("food-1", extraction.CategoryFood, "10.00", NewDate(2024, time.March, 2))
			add("food-2", extraction.CategoryFood, "5.00", NewDate(2024, time.March, 15))
			add("travel", extraction.CategoryTravel, "30.00", NewDate(2024, time.March, 10))
			add("shopping", extraction.CategoryShopping, "100.00", NewDate(2024, time.February, 28))
			add("later", extraction.CategoryGroceries, "7.00", NewDate(2024, time.March, 25))
		})

		When("no dates are given", func() {
			var summary *Summary

			JustBeforeEach(func() {
				var err error
				summary, err = service.Summary(Date{}, Date{})
				Expect(err).NotTo(HaveOccurred())
			})

			It("covers the current month up to today", func() {
				Expect(summary.Period.StartDate).To(Equal(NewDate(2024, time.March, 1)))
				Expect(summary.Period.EndDate).To(Equal(NewDate(2024, time.March, 20)))
			})

			It("totals the period", func() {
				Expect(summary.Total.StringFixed(2)).To(Equal("45.00"))
			})

			It("breaks spending down by category, largest first", func() {
				Expect(summary.ByCategory).To(HaveLen(2))

				travel := summary.ByCategory[0]
				Expect(travel.Category).To(Equal(extraction.CategoryTravel))
				Expect(travel.Amount.StringFixed(2)).To(Equal("30.00"))
				Expect(travel.Percentage.StringFixed(2)).To(Equal("66.67"))
				Expect(travel.Count).To(Equal(1))

				food := summary.ByCategory[1]
				Expect(food.Category).To(Equal(extraction.CategoryFood))
				Expect(food.Amount.StringFixed(2)).To(Equal("15.00"))
				Expect(food.Percentage.StringFixed(2)).To(Equal("33.33"))
				Expect(food.Count).To(Equal(2))
			})
		})

		When("a range is given", func() {
			It("only counts that range", func() {
				summary, err := service.Summary(NewDate(2024, time.February, 1), NewDate(2024, time.February, 29))
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.ByCategory).To(HaveLen(1))
				Expect(summary.ByCategory[0].Category).To(Equal(extraction.CategoryShopping))
				Expect(summary.ByCategory[0].Percentage.StringFixed(2)).To(Equal("100.00"))
			})
		})

		When("nothing was spent", func() {
			It("returns a zero total and no categories", func() {
				summary, err := service.Summary(NewDate(2023, time.January, 1), NewDate(2023, time.January, 31))
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.Total.IsZero()).To(BeTrue())
				Expect(summary.ByCategory).To(BeEmpty())
			})
		})

		When("the range is inverted", func() {
			It("returns a validation error", func() {
				_, err := service.Summary(NewDate(2024, time.March, 10), NewDate(2024, time.March, 1))
				var validationErr *ValidationError
				Expect(errors.As(err, &validationErr)).To(BeTrue())
			})
		})
	})

	Describe("Trends", func() {
		BeforeEach(func() {
			add("too-old", extraction.CategoryOther, "99.00", NewDate(2024, time.February, 19))
			add("tue", extraction.CategoryFood, "1.00", NewDate(2024, time.February, 20))
			add("wed", extraction.CategoryFood, "2.00", NewDate(2024, time.February, 21))
			add("mon", extraction.CategoryFood, "3.00", NewDate(2024, time.March, 4))
			add("wed-2", extraction.CategoryFood, "4.00", NewDate(2024, time.March, 6))
			add("today", extraction.CategoryFood, "5.50", NewDate(2024, time.March, 20))
		})

		points := func(t *Trends) []string {
			out := make([]string, 0, len(t.Data))
			for _, p := range t.Data {
				out = append(out, p.Date.String()+"="+p.Amount.StringFixed(2))
			}
			return out
		}

		It("buckets by day", func() {
			trends, err := service.Trends(PeriodDaily, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(trends.Period).To(Equal(PeriodDaily))
			Expect(points(trends)).To(Equal([]string{
				"2024-02-20=1.00",
				"2024-02-21=2.00",
				"2024-03-04=3.00",
				"2024-03-06=4.00",
				"2024-03-20=5.50",
			}))
		})

		It("buckets by the Monday of each week", func() {
			trends, err := service.Trends(PeriodWeekly, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(points(trends)).To(Equal([]string{
				"2024-02-19=3.00",
				"2024-03-04=7.00",
				"2024-03-18=5.50",
			}))
			Expect(trends.Data[0].Count).To(Equal(2))
		})

		It("buckets by the first of each month", func() {
			trends, err := service.Trends(PeriodMonthly, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(points(trends)).To(Equal([]string{
				"2024-02-01=3.00",
				"2024-03-01=12.50",
			}))
		})

		It("reaches further back with more months", func() {
			trends, err := service.Trends(PeriodMonthly, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(trends.Data[0].Amount.StringFixed(2)).To(Equal("102.00"))
		})

		It("returns an empty series when nothing matches", func() {
			db.expenses = map[string]*Expense{}
			trends, err := service.Trends(PeriodDaily, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(trends.Data).NotTo(BeNil())
			Expect(trends.Data).To(BeEmpty())
		})

		DescribeTable("rejects bad arguments",
			func(period string, months int, field string) {
				_, err := service.Trends(period, months)
				var validationErr *ValidationError
				Expect(errors.As(err, &validationErr)).To(BeTrue())
				Expect(validationErr.Field).To(Equal(field))
			},
			Entry("unknown period", "yearly", 6, "period"),
			Entry("zero months", PeriodDaily, 0, "months"),
			Entry("too many months", PeriodDaily, 25, "months"),
		)
	})

	Describe("subtractMonths", func() {
		It("clamps to the end of a shorter month", func() {
			Expect(subtractMonths(NewDate(2024, time.March, 31), 1)).To(Equal(NewDate(2024, time.February, 29)))
		})

		It("crosses year boundaries", func() {
			Expect(subtractMonths(NewDate(2024, time.January, 15), 2)).To(Equal(NewDate(2023, time.November, 15)))
		})
	})

	Describe("weekStart", func() {
		It("keeps a Monday", func() {
			Expect(weekStart(NewDate(2024, time.March, 4))).To(Equal(NewDate(2024, time.March, 4)))
		})

		It("moves a Sunday back six days", func() {
			Expect(weekStart(NewDate(2024, time.March, 10))).To(Equal(NewDate(2024, time.March, 4)))
		})
	})
})
