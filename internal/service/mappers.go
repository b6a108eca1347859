package service

import (
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
)

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		SellPrice:     p.SellPrice,
		CurrentStock:  p.CurrentStock,
		StockValue:    p.StockValue(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func stockEntryToResponse(e *model.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		ID:            e.ID.String(),
		ProductID:     e.ProductID.String(),
		Kind:          e.Kind,
		Quantity:      e.Quantity,
		PurchasePrice: e.PurchasePrice,
		StockBefore:   e.StockBefore,
		StockAfter:    e.StockAfter,
		Note:          e.Note,
		AddedBy:       e.AddedBy.String(),
		CreatedAt:     e.CreatedAt,
	}
}

func realizationToSummary(r *model.ProfitRealization) dto.RealizationSummary {
	return dto.RealizationSummary{
		ID:                   r.ID.String(),
		PaymentVoucherNumber: r.PaymentVoucherNumber,
		PaymentAmount:        r.PaymentAmount,
		ProfitAmount:         r.ProfitAmount,
		PaymentDate:          r.PaymentDate,
		RecordedBy:           r.RecordedBy.String(),
	}
}

func saleToResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:            s.ID.String(),
		VoucherNumber: s.VoucherNumber,
		ProductID:     s.ProductID.String(),
		UserID:        s.UserID.String(),
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		TotalAmount:   s.TotalAmount,
		Profit:        s.Profit,
		PaidAmount:    s.PaidAmount,
		DueAmount:     s.DueAmount,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		CreatedAt:     s.CreatedAt,
	}
	if s.Product != nil {
		resp.Product = s.Product.Name
	}
	if s.User != nil {
		resp.SoldBy = s.User.Name
	}
	for i := range s.Realizations {
		resp.Payments = append(resp.Payments, realizationToSummary(&s.Realizations[i]))
	}
	return resp
}

func salesToResponse(sales []model.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		out[i] = saleToResponse(&sales[i])
	}
	return out
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate.Format("2006-01-02"),
		RecordedBy:  e.RecordedBy.String(),
		CreatedAt:   e.CreatedAt,
	}
}

func userToResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:         u.ID.String(),
		BusinessID: u.BusinessID.String(),
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Active:     u.Active,
	}
	if u.CreatedBy != nil {
		s := u.CreatedBy.String()
		resp.CreatedBy = &s
	}
	return resp
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
