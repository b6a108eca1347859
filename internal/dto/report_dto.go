package dto

import "github.com/shopspring/decimal"

// PeriodFigures are the money figures of one time window.
type PeriodFigures struct {
	Sales          decimal.Decimal `json:"sales"`
	Profit         decimal.Decimal `json:"profit"`
	RealizedProfit decimal.Decimal `json:"realized_profit"`
	Expenses       decimal.Decimal `json:"expenses"`
	CashInHand     decimal.Decimal `json:"cash_in_hand"` // realized profit - expenses
}

type DashboardResponse struct {
	Today         PeriodFigures   `json:"today"`
	Month         PeriodFigures   `json:"month"`
	StockValue    decimal.Decimal `json:"stock_value"`
	TotalDue      decimal.Decimal `json:"total_due"`
	ProductCount  int64           `json:"product_count"`
	ManagerCount  int64           `json:"manager_count"`
	SalesmanCount int64           `json:"salesman_count"`
	DueCustomers  []SaleResponse  `json:"due_customers"`
	LatestSales   []SaleResponse  `json:"latest_sales"`
}

// DueFilter searches sales with an outstanding balance by customer phone,
// voucher number or customer name.
type DueFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type DueListResponse struct {
	Data     []SaleResponse  `json:"data"`
	Total    int64           `json:"total"`
	TotalDue decimal.Decimal `json:"total_due"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

type AllSalesFilter struct {
	StartDate     string `form:"start_date"     validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date"       validate:"omitempty,datetime=2006-01-02"`
	VoucherSearch string `form:"voucher_search"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// SalesTotals are computed over the whole filtered set, not just the page.
type SalesTotals struct {
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
	Paid   decimal.Decimal `json:"paid"`
	Due    decimal.Decimal `json:"due"`
}

type AllSalesResponse struct {
	Data   []SaleResponse `json:"data"`
	Totals SalesTotals    `json:"totals"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}
