package service

import (
	"time"

	"devmarket/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	GetSellerStats(sellerID uint) (*repository.SellerStats, error)
	GetSalesTrend(sellerID uint, days int) ([]repository.SalesTrendData, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo}
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats()
}

func (s *dashboardService) GetSellerStats(sellerID uint) (*repository.SellerStats, error) {
	return s.txRepo.GetSellerStats(sellerID)
}

func (s *dashboardService) GetSalesTrend(sellerID uint, days int) ([]repository.SalesTrendData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetSalesTrend(sellerID, startDate, endDate)
}
