package router

import (
	"path/filepath"

	"devmarket/internal/config"
	"devmarket/internal/handler"
	"devmarket/internal/middleware"
	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/service"
	"devmarket/internal/ws"
	"devmarket/pkg/jwt"
	"devmarket/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the routes are wired from
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Hub    *ws.Hub
	Files  *storage.Local
	// Publisher defaults to Hub, and to a no-op when neither is set
	Publisher ws.Publisher
}

// New builds the Fiber app with middleware and every route
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      d.Config.AppName,
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    50 * 1024 * 1024, // source archives
	})
	middleware.Setup(app, d.Config.CORSAllowOrigins)
	Setup(app, d)
	return app
}

// Setup wires repositories, services and handlers and registers the routes
func Setup(app *fiber.App, d Deps) {
	var publisher ws.Publisher = ws.NopPublisher{}
	switch {
	case d.Publisher != nil:
		publisher = d.Publisher
	case d.Hub != nil:
		publisher = d.Hub
	}

	// Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(d.DB)
	categoryRepo := repository.NewCategoryRepo(d.DB)
	productRepo := repository.NewProductRepo(d.DB)
	txRepo := repository.NewTransactionRepo(d.DB)
	accessRepo := repository.NewAccessRequestRepo(d.DB)
	messageRepo := repository.NewMessageRepo(d.DB)
	methodRepo := repository.NewPaymentMethodRepo(d.DB)
	settingRepo := repository.NewSettingRepo(d.DB)

	tokens := jwt.NewManager(d.Config.JWTSecret, d.Config.JWTExpiration)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, d.DB)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, userRepo, accessRepo, d.Files, d.DB, publisher)
	accessService := service.NewAccessService(accessRepo, productRepo, userRepo, publisher)
	checkoutService := service.NewCheckoutService(productRepo, txRepo, methodRepo, d.DB, publisher)
	messageService := service.NewMessageService(messageRepo, userRepo, publisher)
	methodService := service.NewPaymentMethodService(methodRepo, d.DB)
	orderService := service.NewOrderService(txRepo, productRepo, d.DB)
	settingService := service.NewSettingService(settingRepo)
	dashService := service.NewDashboardService(txRepo)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler()
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService, d.Files)
	accessHandler := handler.NewAccessHandler(accessService, d.Files)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	messageHandler := handler.NewMessageHandler(messageService)
	methodHandler := handler.NewPaymentMethodHandler(methodService)
	orderHandler := handler.NewOrderHandler(orderService)
	settingHandler := handler.NewSettingHandler(settingService)
	dashHandler := handler.NewDashboardHandler(dashService)
	systemHandler := handler.NewSystemHandler(d.Config)

	requireAuth := middleware.RequireAuth(authService)

	app.Get("/health", systemHandler.Health)
	// Preview images are public; source archives only go through the download route
	app.Static("/uploads/images", filepath.Join(d.Files.Root(), string(storage.KindImage)))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/config", systemHandler.ClientConfig)
	api.Get("/roles", roleHandler.GetRoles)
	api.Get("/categories", categoryHandler.GetCategories)
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", middleware.OptionalAuth(authService), productHandler.GetProduct)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Put("/profile", requireAuth, authHandler.UpdateProfile)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// ============ PROTECTED ROUTES ============
	// Auth is attached per prefix; unmatched paths reach the 404 handler at the end

	// Source access and download
	api.Get("/products/:id/download", requireAuth, accessHandler.Download)
	api.Post("/products/:id/access-requests", requireAuth, middleware.RequirePrivilege(model.PrivAccessRequest), accessHandler.RequestAccess)
	access := api.Group("/access-requests", requireAuth)
	access.Get("/mine", middleware.RequireAnyPrivilege(model.PrivAccessRequest, model.PrivAccessDecide), accessHandler.GetMyRequests)
	access.Put("/:id", middleware.RequirePrivilege(model.PrivAccessDecide), accessHandler.Decide)

	// Checkout
	checkout := api.Group("/checkout", requireAuth)
	checkout.Get("/:productId", checkoutHandler.Quote)
	checkout.Post("/", middleware.RequirePrivilege(model.PrivCheckoutCreate), checkoutHandler.SubmitPayment)
	api.Get("/orders/mine", requireAuth, checkoutHandler.GetMyPurchases)

	// Messaging
	messages := api.Group("/messages", requireAuth, middleware.RequirePrivilege(model.PrivMessageSend))
	messages.Get("/conversations", messageHandler.Conversations)
	messages.Get("/unread-count", messageHandler.UnreadCount)
	if d.Hub != nil {
		messages.Get("/presence/:userId", handler.NewWSHandler(d.Hub).Presence)
	}
	messages.Get("/:userId", messageHandler.FetchNew)
	messages.Post("/", messageHandler.Send)

	// Payment methods
	methods := api.Group("/payment-methods", requireAuth, middleware.RequirePrivilege(model.PrivPaymentMethodManage))
	methods.Get("/", methodHandler.List)
	methods.Post("/", methodHandler.Create)
	methods.Put("/:id", methodHandler.Update)
	methods.Delete("/:id", methodHandler.Delete)
	methods.Put("/:id/default", methodHandler.SetDefault)

	// Seller panel
	seller := api.Group("/seller", requireAuth, middleware.RequireRole(model.RoleSeller, model.RoleAdmin))
	seller.Get("/dashboard", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetSellerStats)
	seller.Get("/sales-trend", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetSalesTrend)
	seller.Get("/products", productHandler.GetMyProducts)
	seller.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), productHandler.CreateProduct)
	seller.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), productHandler.UpdateProduct)
	seller.Post("/products/:id/files", middleware.RequirePrivilege(model.PrivProductUpdate), productHandler.UploadFiles)
	seller.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), productHandler.DeleteProduct)
	seller.Get("/access-requests", accessHandler.GetIncomingRequests)
	seller.Get("/sales", checkoutHandler.GetMySales)

	// Admin panel
	admin := api.Group("/admin", requireAuth, middleware.RequireRole(model.RoleAdmin))
	admin.Get("/dashboard", dashHandler.GetDashboardStats)
	admin.Get("/sales-trend", dashHandler.GetSalesTrend)

	admin.Get("/users", middleware.RequirePrivilege(model.PrivUserManage), userHandler.GetUsers)
	admin.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserManage), userHandler.GetUser)
	admin.Post("/users", middleware.RequirePrivilege(model.PrivUserManage), userHandler.CreateUser)
	admin.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserManage), userHandler.UpdateUser)
	admin.Patch("/users/:id/status", middleware.RequirePrivilege(model.PrivUserManage), userHandler.SetStatus)
	admin.Patch("/users/:id/approval", middleware.RequirePrivilege(model.PrivUserManage), userHandler.SetApproval)
	admin.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserManage), userHandler.DeleteUser)

	admin.Get("/products", productHandler.GetAllProducts)
	admin.Patch("/products/:id/status", middleware.RequirePrivilege(model.PrivProductModerate), productHandler.SetStatus)
	admin.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), productHandler.DeleteProduct)

	admin.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryManage), categoryHandler.CreateCategory)
	admin.Put("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), categoryHandler.UpdateCategory)
	admin.Delete("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), categoryHandler.DeleteCategory)

	admin.Get("/orders/export", middleware.RequirePrivilege(model.PrivOrderManage), orderHandler.Export)
	admin.Get("/orders", middleware.RequirePrivilege(model.PrivOrderManage), orderHandler.GetOrders)
	admin.Get("/orders/:id", middleware.RequirePrivilege(model.PrivOrderManage), orderHandler.GetOrder)
	admin.Patch("/orders/:id/status", middleware.RequirePrivilege(model.PrivOrderManage), orderHandler.UpdateStatus)

	admin.Get("/settings", middleware.RequirePrivilege(model.PrivSettingManage), settingHandler.GetSettings)
	admin.Put("/settings", middleware.RequirePrivilege(model.PrivSettingManage), settingHandler.UpdateSettings)

	// WebSocket Route; browsers pass the token as ?token= or the cookie
	if d.Hub != nil {
		wsHandler := handler.NewWSHandler(d.Hub)
		app.Use("/ws", wsHandler.Upgrade, requireAuth)
		app.Get("/ws", wsHandler.Handler())
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})
}
