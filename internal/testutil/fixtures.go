package testutil

import (
	"time"

	"github.com/emporium/backoffice/internal/application"
	"github.com/emporium/backoffice/internal/domain"
)

// NewTestProduct creates a test product with default values
func NewTestProduct(productID string, stock int) *domain.Product {
	product, err := domain.NewProduct("Ceiling Fan 56in", "CF-56", "fans", domain.PriceSet{
		Original:  80,
		Wholesale: 95,
		Retail:    120,
		Website:   115,
	}, stock)
	if err != nil {
		panic(err)
	}
	if productID != "" {
		product.ProductID = productID
	}
	return product
}

// NewTestSeller creates a test seller with default values
func NewTestSeller(sellerID string) *domain.Seller {
	seller, err := domain.NewSeller("Kamal Perera", "555-0101", 25, 30000)
	if err != nil {
		panic(err)
	}
	if sellerID != "" {
		seller.SellerID = sellerID
	}
	return seller
}

// NewTestCustomer creates a test online customer attached to a seller
func NewTestCustomer(customerID, sellerID string, lines []domain.ProductLine) *domain.Customer {
	customer, err := domain.NewCustomer("Nimali Silva", "555-0202", "12 Lake Rd", domain.CustomerTypeOnline, lines, sellerID, 120)
	if err != nil {
		panic(err)
	}
	if customerID != "" {
		customer.CustomerID = customerID
	}
	return customer
}

// NewTestBill creates a test bill with a single line item
func NewTestBill(billID, sellerID string) *domain.Bill {
	bill, err := domain.NewBill("EM-0001", sellerID,
		domain.BillCustomer{Name: "Walk-in", Phone: "555-0303"},
		[]domain.BillItem{{
			ProductID: "PRD-00000001",
			Name:      "Ceiling Fan 56in",
			Model:     "CF-56",
			PriceTier: domain.PriceTierRetail,
			UnitPrice: 120,
			Quantity:  2,
		}},
		0, 100, 0)
	if err != nil {
		panic(err)
	}
	if billID != "" {
		bill.BillID = billID
	}
	return bill
}

// NewTestParcel creates a test parcel in the processing status
func NewTestParcel(parcelID string, lines []domain.ProductLine) *domain.Parcel {
	parcel, err := domain.NewParcel("TRK-9001", "Nimali Silva", "555-0202", "12 Lake Rd", lines, 240, time.Time{})
	if err != nil {
		panic(err)
	}
	if parcelID != "" {
		parcel.ParcelID = parcelID
	}
	return parcel
}

// NewTestCreateBillCommand creates a test CreateBillCommand
func NewTestCreateBillCommand(sellerID string) application.CreateBillCommand {
	return application.CreateBillCommand{
		SellerID: sellerID,
		Customer: application.BillCustomerInput{Name: "Walk-in", Phone: "555-0303"},
		Items: []application.BillItemInput{{
			ProductID: "PRD-00000001",
			Quantity:  2,
			PriceTier: "retail",
		}},
		AmountPaid: 100,
		IncomeType: "cash",
	}
}

// NewTestCreateCustomerCommand creates a test CreateCustomerCommand
func NewTestCreateCustomerCommand(sellerID string) application.CreateCustomerCommand {
	return application.CreateCustomerCommand{
		Name:     "Nimali Silva",
		Phone:    "555-0202",
		Address:  "12 Lake Rd",
		Type:     "online",
		SellerID: sellerID,
		Price:    120,
		Products: []application.ProductLineInput{{
			ProductID: "PRD-00000001",
			Quantity:  2,
		}},
	}
}
