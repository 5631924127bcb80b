package expense

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newExpense := func(id string) *Expense {
		return &Expense{
			ID:          id,
			Merchant:    "Corner Cafe",
			Amount:      money("12.34"),
			Category:    extraction.CategoryFood,
			Date:        NewDate(2024, time.January, 15),
			Notes:       "lunch",
			ReceiptFile: id + "_receipt.jpg",
			ContentType: "image/jpeg",
			CreatedAt:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveExpense and GetExpense", func() {
		It("stores and loads every field", func() {
			in := newExpense("e1")
			Expect(db.SaveExpense(in)).To(Succeed())

			out, err := db.GetExpense("e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Merchant).To(Equal(in.Merchant))
			Expect(out.Amount.Equal(in.Amount)).To(BeTrue())
			Expect(out.Category).To(Equal(in.Category))
			Expect(out.Date).To(Equal(in.Date))
			Expect(out.Notes).To(Equal(in.Notes))
			Expect(out.ReceiptFile).To(Equal(in.ReceiptFile))
			Expect(out.CreatedAt).To(BeTemporally("==", in.CreatedAt))
		})

		It("overwrites an existing expense", func() {
			e := newExpense("e1")
			Expect(db.SaveExpense(e)).To(Succeed())
			e.Merchant = "Other Cafe"
			Expect(db.SaveExpense(e)).To(Succeed())

			out, err := db.GetExpense("e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Merchant).To(Equal("Other Cafe"))
		})

		It("returns not found for unknown IDs", func() {
			_, err := db.GetExpense("missing")
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})
	})

	Describe("ListExpenses", func() {
		It("returns an empty list for a new database", func() {
			expenses, err := db.ListExpenses()
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).NotTo(BeNil())
			Expect(expenses).To(BeEmpty())
		})

		It("returns every stored expense", func() {
			Expect(db.SaveExpense(newExpense("e1"))).To(Succeed())
			Expect(db.SaveExpense(newExpense("e2"))).To(Succeed())

			expenses, err := db.ListExpenses()
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(expenses)).To(ConsistOf("e1", "e2"))
		})
	})

	Describe("DeleteExpense", func() {
		It("removes the expense", func() {
			Expect(db.SaveExpense(newExpense("e1"))).To(Succeed())
			Expect(db.DeleteExpense("e1")).To(Succeed())

			_, err := db.GetExpense("e1")
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})

		It("returns not found for unknown IDs", func() {
			Expect(errors.Is(db.DeleteExpense("missing"), ErrNotFound)).To(BeTrue())
		})
	})

	It("keeps data across reopen", func() {
		Expect(db.SaveExpense(newExpense("e1"))).To(Succeed())
		Expect(db.Close()).To(Succeed())

		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())

		_, err = db.GetExpense("e1")
		Expect(err).NotTo(HaveOccurred())
	})
})
