package validation

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
)

func validInput() *ReceiptInput {
	return &ReceiptInput{
		Retailer:     "Target",
		PurchaseDate: "2022-01-01",
		PurchaseTime: "13:01",
		Items: []ItemInput{
			{ShortDescription: "Mountain Dew 12PK", Price: "6.49"},
			{ShortDescription: "Emils Cheese Pizza", Price: "12.25"},
		},
		Total: "18.74",
	}
}

var _ = Describe("Validator", func() {
	var (
		v       *Validator
		input   *ReceiptInput
		receipt *entity.Receipt
		err     error
	)

	BeforeEach(func() {
		v = NewValidator()
		input = validInput()
	})

	JustBeforeEach(func() {
		receipt, err = v.Validate(input)
	})

	When("the receipt is valid", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should convert every field", func() {
			Expect(receipt.Retailer).To(Equal("Target"))
			Expect(receipt.PurchaseDate).To(Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(receipt.PurchaseTime).To(Equal(entity.ClockTime{Hour: 13, Minute: 1}))
			Expect(receipt.Total.String()).To(Equal("18.74"))
			Expect(receipt.Items).To(HaveLen(2))
			Expect(receipt.Items[0].ShortDescription).To(Equal("Mountain Dew 12PK"))
			Expect(receipt.Items[1].Price.StringFixed(2)).To(Equal("12.25"))
		})
	})

	When("the total does not match the item sum", func() {
		BeforeEach(func() {
			input.Total = "100.00"
		})

		It("should trust the submitted total", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Total.StringFixed(2)).To(Equal("100.00"))
		})
	})

	When("amounts use the full fifteen integer digits", func() {
		BeforeEach(func() {
			input.Items[0].Price = "999999999999999.99"
			input.Total = "999999999999999.99"
		})

		It("should accept them exactly", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Items[0].Price.StringFixed(2)).To(Equal("999999999999999.99"))
		})
	})

	When("the retailer contains punctuation", func() {
		BeforeEach(func() {
			input.Retailer = "Best Buy!"
		})

		It("should accept it", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the input is nil", func() {
		BeforeEach(func() {
			input = nil
		})

		It("should return a validation error", func() {
			var ve *entity.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue())
			Expect(ve.Field()).To(Equal("receipt"))
		})
	})

	When("several fields are invalid", func() {
		BeforeEach(func() {
			input.Retailer = ""
			input.Total = "-1.00"
		})

		It("should report every violation", func() {
			var ve *entity.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue())
			Expect(ve.Violations).To(HaveLen(2))
			Expect(ve.Violations[0].Field).To(Equal("retailer"))
			Expect(ve.Violations[1].Field).To(Equal("total"))
			Expect(ve.Error()).To(ContainSubstring("retailer is required"))
		})
	})

	DescribeTable("rejecting invalid receipts",
		func(mutate func(*ReceiptInput), field string) {
			in := validInput()
			mutate(in)

			got, err := v.Validate(in)
			Expect(got).To(BeNil())

			var ve *entity.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue())
			Expect(ve.Field()).To(Equal(field))
		},
		Entry("missing retailer", func(in *ReceiptInput) { in.Retailer = "" }, "retailer"),
		Entry("missing purchase date", func(in *ReceiptInput) { in.PurchaseDate = "" }, "purchaseDate"),
		Entry("month 13", func(in *ReceiptInput) { in.PurchaseDate = "2022-13-01" }, "purchaseDate"),
		Entry("february 30", func(in *ReceiptInput) { in.PurchaseDate = "2022-02-30" }, "purchaseDate"),
		Entry("slash separated date", func(in *ReceiptInput) { in.PurchaseDate = "2022/01/01" }, "purchaseDate"),
		Entry("missing purchase time", func(in *ReceiptInput) { in.PurchaseTime = "" }, "purchaseTime"),
		Entry("hour 25", func(in *ReceiptInput) { in.PurchaseTime = "25:00" }, "purchaseTime"),
		Entry("minute 60", func(in *ReceiptInput) { in.PurchaseTime = "13:60" }, "purchaseTime"),
		Entry("single digit hour", func(in *ReceiptInput) { in.PurchaseTime = "9:05" }, "purchaseTime"),
		Entry("twelve hour clock", func(in *ReceiptInput) { in.PurchaseTime = "01:01 PM" }, "purchaseTime"),
		Entry("missing items", func(in *ReceiptInput) { in.Items = nil }, "items"),
		Entry("empty items", func(in *ReceiptInput) { in.Items = []ItemInput{} }, "items"),
		Entry("missing description", func(in *ReceiptInput) { in.Items[1].ShortDescription = "" }, "items[1].shortDescription"),
		Entry("one decimal price", func(in *ReceiptInput) { in.Items[0].Price = "6.4" }, "items[0].price"),
		Entry("non numeric price", func(in *ReceiptInput) { in.Items[0].Price = "abc" }, "items[0].price"),
		Entry("negative price", func(in *ReceiptInput) { in.Items[0].Price = "-6.49" }, "items[0].price"),
		Entry("missing price", func(in *ReceiptInput) { in.Items[0].Price = "" }, "items[0].price"),
		Entry("missing total", func(in *ReceiptInput) { in.Total = "" }, "total"),
		Entry("negative total", func(in *ReceiptInput) { in.Total = "-18.74" }, "total"),
		Entry("integer total", func(in *ReceiptInput) { in.Total = "18" }, "total"),
		Entry("three decimal total", func(in *ReceiptInput) { in.Total = "18.740" }, "total"),
		Entry("twenty digit price", func(in *ReceiptInput) { in.Items[0].Price = "50000000000000000000.00" }, "items[0].price"),
		Entry("sixteen digit total", func(in *ReceiptInput) { in.Total = "1000000000000000.00" }, "total"),
	)
})

var _ = Describe("IsMoney", func() {
	DescribeTable("matching money strings",
		func(s string, expected bool) {
			Expect(IsMoney(s)).To(Equal(expected))
		},
		Entry("typical price", "6.49", true),
		Entry("zero", "0.00", true),
		Entry("large amount", "123456.78", true),
		Entry("largest accepted amount", "999999999999999.99", true),
		Entry("sixteen integer digits", "1000000000000000.00", false),
		Entry("one decimal", "6.4", false),
		Entry("no leading digit", ".49", false),
		Entry("signed", "+6.49", false),
		Entry("negative", "-6.49", false),
		Entry("text", "abc", false),
		Entry("empty", "", false),
	)
})

var _ = Describe("ParseClock", func() {
	It("should parse midnight", func() {
		c, err := ParseClock("00:00")
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(entity.ClockTime{}))
	})

	It("should parse the last minute of the day", func() {
		c, err := ParseClock("23:59")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.String()).To(Equal("23:59"))
	})

	It("should reject 24:00", func() {
		_, err := ParseClock("24:00")
		Expect(err).To(HaveOccurred())
	})
})
