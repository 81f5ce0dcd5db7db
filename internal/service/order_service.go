package service

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
)

type OrderService interface {
	ListOrders(filter repository.TransactionFilter) ([]model.Transaction, error)
	GetOrder(id uint) (*model.Transaction, error)
	UpdateOrderStatus(id uint, status model.TransactionStatus, actor model.Actor) (*model.Transaction, error)
	ExportOrders(filter repository.TransactionFilter, w io.Writer) error
}

type orderService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	db              *gorm.DB
}

func NewOrderService(transactionRepo repository.TransactionRepository, productRepo repository.ProductRepository, db *gorm.DB) OrderService {
	return &orderService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		db:              db,
	}
}

func (s *orderService) ListOrders(filter repository.TransactionFilter) ([]model.Transaction, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.transactionRepo.FindAll(filter)
}

func (s *orderService) GetOrder(id uint) (*model.Transaction, error) {
	order, err := s.transactionRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, fmt.Errorf("%w: order %d", ErrNotFound, id))
	}
	return order, nil
}

// UpdateOrderStatus changes an order's status and keeps the product in step:
// a product is sold exactly when one of its orders is completed.
func (s *orderService) UpdateOrderStatus(id uint, status model.TransactionStatus, actor model.Actor) (*model.Transaction, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	by := actor.AuditName()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch {
		case status == model.TxCompleted:
			affected, err := s.productRepo.MarkSold(tx, order.ProductID, by)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrProductNotAvailable
			}
		case order.Status == model.TxCompleted:
			others, err := s.transactionRepo.CountCompletedForProduct(tx, order.ProductID, order.ID)
			if err != nil {
				return err
			}
			if others == 0 {
				if err := s.productRepo.UpdateStatus(tx, order.ProductID, model.ProductAvailable, by); err != nil {
					return err
				}
			}
		}
		return s.transactionRepo.UpdateStatus(tx, order.ID, status, by)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(order.ID)
}

var orderExportHeaders = []string{
	"Order ID", "Date", "Product", "Buyer", "Seller",
	"Amount", "Payment Method", "Reference Number", "Status",
}

// ExportOrders writes the filtered orders to w as an .xlsx workbook
func (s *orderService) ExportOrders(filter repository.TransactionFilter, w io.Writer) error {
	orders, err := s.ListOrders(filter)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range orderExportHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(o.ID))
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(productName(o.Product))
		row.AddCell().SetString(username(o.Buyer))
		row.AddCell().SetString(username(o.Seller))
		row.AddCell().SetString(o.Amount.StringFixed(2))
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(o.ReferenceNumber)
		row.AddCell().SetString(string(o.Status))
	}

	return file.Write(w)
}

func productName(p *model.Product) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func username(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
