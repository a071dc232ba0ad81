package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the product endpoints on the given router group
func (h *ProductHandler) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:productId", h.GetProduct)
		products.PUT("/:productId", h.UpdateProduct)
		products.POST("/:productId/stock", h.AdjustStock)
		products.GET("/:productId/stock-history", h.GetStockHistory)
		products.DELETE("/:productId", h.DeleteProduct)
	}
}

// RegisterRoutes mounts the seller endpoints on the given router group
func (h *SellerHandler) RegisterRoutes(api *gin.RouterGroup) {
	sellers := api.Group("/sellers")
	{
		sellers.POST("", h.CreateSeller)
		sellers.GET("", h.ListSellers)
		sellers.GET("/:sellerId", h.GetSeller)
		sellers.PUT("/:sellerId", h.UpdateSeller)
		sellers.DELETE("/:sellerId", h.DeleteSeller)
		sellers.GET("/:sellerId/sales", h.GetSellerSales)
		sellers.GET("/:sellerId/commission-summary", h.GetCommissionSummary)
	}
}

// RegisterRoutes mounts the customer endpoints on the given router group
func (h *CustomerHandler) RegisterRoutes(api *gin.RouterGroup) {
	customers := api.Group("/customers")
	{
		// Fixed paths come before the :customerId wildcard
		customers.POST("/commissions/backfill", h.BackfillCommissions)
		customers.GET("/commissions/preview", h.PreviewCommissions)

		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:customerId", h.GetCustomer)
		customers.PUT("/:customerId", h.UpdateCustomer)
		customers.DELETE("/:customerId", h.DeleteCustomer)
	}
}

// RegisterRoutes mounts the bill endpoints on the given router group
func (h *BillHandler) RegisterRoutes(api *gin.RouterGroup) {
	bills := api.Group("/bills")
	{
		// Fixed paths come before the :billId wildcard
		bills.GET("/stats/overview", h.GetBillingStats)
		bills.GET("/customer/:customerName/history", h.GetCustomerHistory)

		bills.POST("", h.CreateBill)
		bills.GET("", h.ListBills)
		bills.GET("/:billId", h.GetBill)
		bills.PUT("/:billId", h.UpdateBill)
		bills.POST("/:billId/payments", h.AddPayment)
		bills.PUT("/:billId/status", h.UpdateStatus)
		bills.POST("/:billId/cancel", h.CancelBill)
	}
}

// RegisterRoutes mounts the parcel endpoints on the given router group
func (h *ParcelHandler) RegisterRoutes(api *gin.RouterGroup) {
	parcels := api.Group("/parcels")
	{
		parcels.POST("", h.CreateParcel)
		parcels.GET("", h.ListParcels)
		parcels.GET("/:parcelId", h.GetParcel)
		parcels.PUT("/:parcelId", h.UpdateParcel)
		parcels.PUT("/:parcelId/status", h.UpdateStatus)
		parcels.DELETE("/:parcelId", h.DeleteParcel)
	}
}

// RegisterRoutes mounts the return endpoints on the given router group
func (h *ReturnHandler) RegisterRoutes(api *gin.RouterGroup) {
	returns := api.Group("/returns")
	{
		returns.POST("", h.CreateReturn)
		returns.GET("", h.ListReturns)
		returns.GET("/:returnId", h.GetReturn)
	}
}

// RegisterRoutes mounts the sale endpoints on the given router group
func (h *SaleHandler) RegisterRoutes(api *gin.RouterGroup) {
	sales := api.Group("/sales")
	{
		// Fixed paths come before the :saleId wildcard
		sales.GET("/last-price", h.GetLastPrice)

		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:saleId", h.GetSale)
		sales.DELETE("/:saleId", h.DeleteSale)
	}
}

// RegisterRoutes mounts the purchase batch endpoints on the given router group
func (h *PurchaseBatchHandler) RegisterRoutes(api *gin.RouterGroup) {
	batches := api.Group("/purchase-batches")
	{
		batches.POST("", h.CreatePurchaseBatch)
		batches.GET("", h.ListPurchaseBatches)
		batches.GET("/:batchId", h.GetPurchaseBatch)
	}
}

// RegisterRoutes mounts the income endpoints on the given router group
func (h *IncomeHandler) RegisterRoutes(api *gin.RouterGroup) {
	incomes := api.Group("/incomes")
	{
		incomes.POST("", h.CreateIncome)
		incomes.GET("", h.ListIncomes)
	}
}
