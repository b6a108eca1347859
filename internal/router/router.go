package router

import (
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/handler"
	"github.com/gsagg03-cmyk/erpx/internal/middleware"
	"github.com/gsagg03-cmyk/erpx/internal/repository"
	"github.com/gsagg03-cmyk/erpx/internal/service"
	"github.com/gsagg03-cmyk/erpx/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service layer. main shares it with the worker pool so
// background jobs and HTTP requests go through the same code.
type Services struct {
	Policy    *authz.Policy
	Auth      service.AuthService
	Products  service.ProductService
	Inventory service.InventoryService
	Sales     service.SaleService
	Payments  service.PaymentService
	Expenses  service.ExpenseService
	Reports   service.ReportService
}

// NewServices builds repositories and services.
// Dependency graph: Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *Services {
	loc := cfg.Location()
	policy := authz.DefaultPolicy()
	cache := service.NewCache(rdb, time.Duration(cfg.DashboardCacheTTL)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	businessRepo := repository.NewBusinessRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockEntryRepo := repository.NewStockEntryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	realizationRepo := repository.NewProfitRealizationRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportRepo := repository.NewReportRepository(db)
	vouchers := service.NewVoucherIssuer(repository.NewVoucherSequenceRepository(), loc, time.Now)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(productRepo, stockEntryRepo, policy, cache)
	return &Services{
		Policy:    policy,
		Auth:      service.NewAuthService(userRepo, businessRepo, policy, cfg),
		Products:  service.NewProductService(productRepo, saleRepo, inventorySvc, policy, cache),
		Inventory: inventorySvc,
		Sales:     service.NewSaleService(saleRepo, productRepo, realizationRepo, vouchers, policy, cache),
		Payments:  service.NewPaymentService(saleRepo, realizationRepo, businessRepo, vouchers, policy, cache, dispatcher, cfg.PDFStoragePath),
		Expenses:  service.NewExpenseService(expenseRepo, policy, cache, loc, time.Now),
		Reports:   service.NewReportService(reportRepo, policy, cache, loc, time.Now),
	}
}

// New returns a configured Gin engine over the given services.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth, cfg.AllowRegistration)
	productsH := handler.NewProductsHandler(svcs.Products)
	inventoryH := handler.NewInventoryHandler(svcs.Inventory)
	salesH := handler.NewSalesHandler(svcs.Sales)
	paymentsH := handler.NewPaymentsHandler(svcs.Payments)
	expensesH := handler.NewExpensesHandler(svcs.Expenses)
	reportsH := handler.NewReportsHandler(svcs.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
	}

	// Protected routes. Every route declares its capability; services check again.
	can := func(c authz.Capability) gin.HandlerFunc { return middleware.RequireCapability(svcs.Policy, c) }
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		users := v1.Group("/users", can(authz.CapUserManage))
		{
			users.GET("", authH.ListUsers)
			users.POST("", authH.CreateUser)
		}

		v1.GET("/products", can(authz.CapProductView), productsH.List)
		v1.GET("/products/sku/:sku", can(authz.CapProductView), productsH.LookupBySKU)
		v1.GET("/products/:id", can(authz.CapProductView), productsH.Get)
		v1.GET("/products/:id/stock", can(authz.CapProductView), inventoryH.ListEntries)
		v1.POST("/products/:id/stock/adjust", can(authz.CapStockAdjust), inventoryH.Adjust)
		v1.POST("/products/:id/stock/receive", can(authz.CapStockReceive), inventoryH.Receive)
		prods := v1.Group("/products", can(authz.CapProductManage))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
		}

		sales := v1.Group("/sales", can(authz.CapSaleRecord))
		{
			sales.POST("", salesH.Record)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
		}
		v1.POST("/sales/:id/payments", can(authz.CapPaymentRecord), paymentsH.Record)

		payments := v1.Group("/payments", can(authz.CapReportView))
		{
			payments.GET("/:id", paymentsH.Voucher)
			payments.GET("/:id/pdf", paymentsH.VoucherPDF)
		}

		reports := v1.Group("/reports", can(authz.CapReportView))
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/dues", reportsH.Dues)
			reports.GET("/sales", reportsH.AllSales)
			reports.GET("/sales/export", reportsH.ExportSales)
		}

		expenses := v1.Group("/expenses", can(authz.CapExpenseManage))
		{
			expenses.POST("", expensesH.Create)
			expenses.GET("", expensesH.List)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
