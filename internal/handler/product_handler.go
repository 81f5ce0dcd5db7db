package handler

import (
	"log"
	"mime/multipart"
	"strings"

	"devmarket/internal/middleware"
	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/service"
	"devmarket/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.ProductService
	files   *storage.Local
}

func NewProductHandler(s service.ProductService, files *storage.Local) *ProductHandler {
	return &ProductHandler{service: s, files: files}
}

// productFilter reads catalog filters from the query string
func productFilter(c *fiber.Ctx) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		CategoryID: queryUint(c, "category_id"),
		Search:     c.Query("search"),
		Sort:       repository.ProductSort(c.Query("sort", string(repository.SortNewest))),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 0),
	}
	for name, target := range map[string]**decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
		}
		*target = &d
	}
	return filter, nil
}

// GetProducts is the public catalog
// GET /api/v1/products?category_id=&min_price=&max_price=&search=&sort=&page=&limit=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.service.ListProducts(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": page.Products, "meta": page.Meta})
}

// GetAllProducts lists products in every status for admins
// GET /api/v1/admin/products?status=pending,hidden
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter.SellerID = queryUint(c, "seller_id")
	if raw := c.Query("status"); raw != "" {
		filter.Statuses = lo.Map(strings.Split(raw, ","), func(s string, _ int) model.ProductStatus {
			return model.ProductStatus(strings.TrimSpace(s))
		})
	}

	page, err := h.service.ListAllProducts(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": page.Products, "meta": page.Meta})
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var viewer *model.Actor
	if a, ok := middleware.CurrentActor(c); ok {
		viewer = &a
	}

	product, err := h.service.GetProduct(id, viewer)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// GetMyProducts lists the seller's own products in every status
// GET /api/v1/seller/products
func (h *ProductHandler) GetMyProducts(c *fiber.Ctx) error {
	products, err := h.service.ListSellerProducts(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

// POST /api/v1/seller/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(&req, actor(c))
	if err != nil {
		return fail(c, err)
	}

	message := "Product submitted for review"
	if product.Status == model.ProductAvailable {
		message = "Product created successfully"
	}
	return c.Status(201).JSON(fiber.Map{"message": message, "data": product})
}

// PUT /api/v1/seller/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.UpdateProduct(id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated successfully", "data": product})
}

// UploadFiles stores a preview image and/or a source archive (multipart fields "image" and "source")
// POST /api/v1/seller/products/:id/files
func (h *ProductHandler) UploadFiles(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	image, _ := c.FormFile("image")
	source, _ := c.FormFile("source")
	if image == nil && source == nil {
		return badRequest(c, "An image or source file is required")
	}

	var saved []string
	cleanup := func() {
		for _, rel := range saved {
			if err := h.files.Remove(rel); err != nil {
				log.Printf("Warning: failed to remove %s: %v", rel, err)
			}
		}
	}

	paths := map[storage.Kind]string{}
	for kind, file := range map[storage.Kind]*multipart.FileHeader{storage.KindImage: image, storage.KindSource: source} {
		if file == nil {
			continue
		}
		rel, abs, err := h.files.Reserve(kind, file.Filename)
		if err != nil {
			cleanup()
			return fail(c, err)
		}
		if err := c.SaveFile(file, abs); err != nil {
			cleanup()
			return fail(c, err)
		}
		saved = append(saved, rel)
		paths[kind] = rel
	}

	product, err := h.service.AttachFiles(id, paths[storage.KindImage], paths[storage.KindSource], actor(c))
	if err != nil {
		cleanup()
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Files uploaded successfully", "data": product})
}

// DELETE /api/v1/seller/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.service.DeleteProduct(id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// SetStatus applies a moderation decision
// PATCH /api/v1/admin/products/:id/status
func (h *ProductHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var req struct {
		Status model.ProductStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.SetProductStatus(id, req.Status, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product status updated", "data": product})
}
