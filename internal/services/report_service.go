package services

import "thrifttech/internal/repos"

type ReportService struct {
	Reports *repos.ReportRepo
}

func NewReportService(reports *repos.ReportRepo) *ReportService {
	return &ReportService{Reports: reports}
}

// Dashboard is the admin landing summary.
type Dashboard struct {
	ProductsSold  int
	UsersToday    int
	TotalRevenue  float64
	InvoicesToday int
	LowStock      []repos.StockRow
	TopCategories []repos.CategoryCount
}

func (s *ReportService) Dashboard() (Dashboard, error) {
	var d Dashboard
	var err error
	if d.ProductsSold, err = s.Reports.ProductsSold(); err != nil {
		return d, err
	}
	if d.UsersToday, err = s.Reports.UsersRegisteredToday(); err != nil {
		return d, err
	}
	if d.TotalRevenue, err = s.Reports.TotalRevenue(); err != nil {
		return d, err
	}
	if d.InvoicesToday, err = s.Reports.InvoicesToday(); err != nil {
		return d, err
	}
	if d.LowStock, err = s.Reports.LowStock(); err != nil {
		return d, err
	}
	d.TopCategories, err = s.Reports.TopSellingCategories()
	return d, err
}

// Reports is the full back-office report set.
type Reports struct {
	OnHand         []repos.StockRow
	LowStock       []repos.StockRow
	ByCategory     []repos.CategoryCount
	TopCategories  []repos.CategoryCount
	TopProducts    []repos.TitleCount
	InvoicesByDate []repos.DateCount
}

func (s *ReportService) All() (Reports, error) {
	var r Reports
	var err error
	if r.OnHand, err = s.Reports.ProductsOnHand(); err != nil {
		return r, err
	}
	if r.LowStock, err = s.Reports.LowStock(); err != nil {
		return r, err
	}
	if r.ByCategory, err = s.Reports.ProductsByCategory(); err != nil {
		return r, err
	}
	if r.TopCategories, err = s.Reports.TopSellingCategories(); err != nil {
		return r, err
	}
	if r.TopProducts, err = s.Reports.TopProducts(); err != nil {
		return r, err
	}
	r.InvoicesByDate, err = s.Reports.InvoicesByDate()
	return r, err
}
