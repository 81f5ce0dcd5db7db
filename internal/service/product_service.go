package service

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/ws"
	"devmarket/pkg/validator"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// FileStore removes uploaded files that are no longer referenced
type FileStore interface {
	Remove(rel string) error
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) (*ProductPage, error)
	ListAllProducts(filter repository.ProductFilter) (*ProductPage, error)
	ListSellerProducts(sellerID uint) ([]model.Product, error)
	GetProduct(id uint, actor *model.Actor) (*model.Product, error)
	CreateProduct(req *ProductRequest, actor model.Actor) (*model.Product, error)
	UpdateProduct(id uint, req *ProductRequest, actor model.Actor) (*model.Product, error)
	AttachFiles(id uint, imagePath, sourcePath string, actor model.Actor) (*model.Product, error)
	SetProductStatus(id uint, status model.ProductStatus, actor model.Actor) (*model.Product, error)
	DeleteProduct(id uint, actor model.Actor) error
}

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

type ProductPage struct {
	Products []model.Product     `json:"products"`
	Meta     model.PaginationMeta `json:"meta"`
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	accessRepo   repository.AccessRequestRepository
	files        FileStore
	db           *gorm.DB
	publisher    ws.Publisher
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	accessRepo repository.AccessRequestRepository,
	files FileStore,
	db *gorm.DB,
	publisher ws.Publisher,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		accessRepo:   accessRepo,
		files:        files,
		db:           db,
		publisher:    publisher,
	}
}

// ListProducts is the public catalog: available products only
func (s *productService) ListProducts(filter repository.ProductFilter) (*ProductPage, error) {
	filter.Statuses = []model.ProductStatus{model.ProductAvailable}
	return s.page(filter)
}

// ListAllProducts is the admin listing; Statuses narrows it when set
func (s *productService) ListAllProducts(filter repository.ProductFilter) (*ProductPage, error) {
	return s.page(filter)
}

func (s *productService) page(filter repository.ProductFilter) (*ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	products, total, err := s.productRepo.Search(filter)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products: products,
		Meta:     model.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *productService) ListSellerProducts(sellerID uint) ([]model.Product, error) {
	products, _, err := s.productRepo.Search(repository.ProductFilter{SellerID: sellerID})
	return products, err
}

// GetProduct hides non-public products from everyone but their seller and admins
func (s *productService) GetProduct(id uint, actor *model.Actor) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if product.IsPublic() || product.Status == model.ProductSold {
		return product, nil
	}
	if actor != nil && (actor.IsAdmin() || product.IsOwnedBy(actor.UserID)) {
		return product, nil
	}
	return nil, ErrProductNotFound
}

func (s *productService) CreateProduct(req *ProductRequest, actor model.Actor) (*model.Product, error) {
	// 1. Validasi Struct Dasar
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	// 2. Only approved sellers and admins may list
	seller, err := s.userRepo.FindByID(actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !seller.CanSell() {
		return nil, ErrSellerNotApproved
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, notFound(err, fmt.Errorf("%w: category %d", ErrNotFound, req.CategoryID))
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		CategoryID:  req.CategoryID,
		SellerID:    seller.ID,
		Status:      model.ProductPending,
	}
	// Admin listings skip moderation
	if actor.IsAdmin() {
		product.Status = model.ProductAvailable
	}
	product.Stamp(actor.AuditName())

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id uint, req *ProductRequest, actor model.Actor) (*model.Product, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	product, err := s.ownedProduct(id, actor)
	if err != nil {
		return nil, err
	}
	if product.Status == model.ProductSold || product.Status == model.ProductDeleted {
		return nil, fmt.Errorf("%w: %s products cannot be edited", ErrConflict, product.Status)
	}
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, notFound(err, fmt.Errorf("%w: category %d", ErrNotFound, req.CategoryID))
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price.Round(2)
	product.CategoryID = req.CategoryID
	product.Stamp(actor.AuditName())

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(product.ID)
}

// AttachFiles records newly uploaded files and removes the files they replace.
// An empty path leaves the current file in place.
func (s *productService) AttachFiles(id uint, imagePath, sourcePath string, actor model.Actor) (*model.Product, error) {
	product, err := s.ownedProduct(id, actor)
	if err != nil {
		return nil, err
	}

	oldImage, oldSource := product.ImagePath, product.SourcePath
	newImage, newSource := oldImage, oldSource
	if imagePath != "" {
		newImage = imagePath
	}
	if sourcePath != "" {
		newSource = sourcePath
	}

	if err := s.productRepo.UpdateFiles(product.ID, newImage, newSource, actor.AuditName()); err != nil {
		return nil, err
	}
	if newImage != oldImage {
		s.removeFile(oldImage)
	}
	if newSource != oldSource {
		s.removeFile(oldSource)
	}
	return s.productRepo.FindByID(product.ID)
}

// SetProductStatus applies an admin moderation decision
func (s *productService) SetProductStatus(id uint, status model.ProductStatus, actor model.Actor) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if !model.CanModerate(product.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, product.Status, status)
	}

	if err := s.productRepo.UpdateStatus(s.db, product.ID, status, actor.AuditName()); err != nil {
		return nil, err
	}
	product.Status = status

	s.publisher.Publish(product.SellerID, ws.Event{
		Type: "product.status",
		Payload: map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
			"status":     status,
		},
	})
	return product, nil
}

// DeleteProduct removes the row and its uploaded files. Products that
// already have orders are kept so the order history stays intact.
func (s *productService) DeleteProduct(id uint, actor model.Actor) error {
	product, err := s.ownedProduct(id, actor)
	if err != nil {
		return err
	}

	orders, err := s.productRepo.CountTransactions(product.ID)
	if err != nil {
		return err
	}
	if orders > 0 {
		return ErrProductHasOrders
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accessRepo.DeleteByProduct(tx, product.ID); err != nil {
			return err
		}
		return s.productRepo.Delete(tx, product.ID)
	})
	if err != nil {
		return err
	}

	s.removeFile(product.ImagePath)
	s.removeFile(product.SourcePath)
	return nil
}

// ownedProduct loads a product the actor may manage (its seller or an admin)
func (s *productService) ownedProduct(id uint, actor model.Actor) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if !actor.IsAdmin() && !product.IsOwnedBy(actor.UserID) {
		return nil, ErrForbidden
	}
	return product, nil
}

func (s *productService) removeFile(rel string) {
	if rel == "" {
		return
	}
	if err := s.files.Remove(rel); err != nil {
		log.Printf("Warning: failed to remove %s: %v", rel, err)
	}
}
