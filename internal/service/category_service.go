package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/pkg/validator"
)

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	CreateCategory(req *CategoryRequest, actor model.Actor) (*model.Category, error)
	UpdateCategory(id uint, req *CategoryRequest, actor model.Actor) (*model.Category, error)
	DeleteCategory(id uint) error
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) CreateCategory(req *CategoryRequest, actor model.Actor) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(req.Name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	category.Stamp(actor.AuditName())
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, req *CategoryRequest, actor model.Actor) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, fmt.Errorf("%w: category %d", ErrNotFound, id))
	}
	if err := s.ensureNameFree(req.Name, category.ID); err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Stamp(actor.AuditName())
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while any product still references the category
func (s *categoryService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return notFound(err, fmt.Errorf("%w: category %d", ErrNotFound, id))
	}

	count, err := s.categoryRepo.CountProducts(category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (%d products)", ErrCategoryInUse, count)
	}
	return s.categoryRepo.Delete(category.ID)
}

func (s *categoryService) ensureNameFree(name string, selfID uint) error {
	existing, err := s.categoryRepo.FindByName(name)
	if err == nil && existing.ID != selfID {
		return ErrCategoryExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
