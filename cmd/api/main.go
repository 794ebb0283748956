package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-sku/internal/handler"
	"go-inventory-sku/internal/middleware"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/internal/service"
	"go-inventory-sku/internal/ws"
	"go-inventory-sku/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a migration tool for bigger deployments)
	db.AutoMigrate(
		&model.Category{}, &model.Unit{}, &model.Warehouse{},
		&model.Item{}, &model.Sku{},
		&model.Loan{}, &model.LoanDetail{},
		&model.User{},
	)

	rdb := database.ConnectRedis()

	// 3. Seed default admin operator
	seedAdmin(db)

	// 4. WebSocket hub for live table refreshes
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	userRepo := repository.NewUserRepo(db)

	categoryStore := repository.NewRecoverableStore[model.Category](db, "category")
	unitStore := repository.NewRecoverableStore[model.Unit](db, "unit")
	warehouseStore := repository.NewRecoverableStore[model.Warehouse](db, "warehouse")

	// SKU and lending share one lock table so per-SKU guards exclude each other
	locks := service.NewLockTable()

	itemService := service.NewItemService(itemRepo, wsHub)
	skuService := service.NewSkuService(skuRepo, itemRepo, warehouseStore, db, locks, wsHub)
	lendingService := service.NewLendingService(loanRepo, skuRepo, db, locks, wsHub)
	authService := service.NewAuthService(userRepo)

	categoryService := service.NewMasterService(categoryStore, wsHub)
	unitService := service.NewMasterService(unitStore, wsHub)
	warehouseService := service.NewMasterService(warehouseStore, wsHub)

	itemHandler := handler.NewItemHandler(itemService)
	skuHandler := handler.NewSkuHandler(skuService)
	loanHandler := handler.NewLoanHandler(lendingService)
	authHandler := handler.NewAuthHandler(authService)

	categoryHandler := handler.NewMasterHandler(categoryService, "Category", func(dst, src *model.Category) {
		dst.Name = src.Name
		dst.Code = src.Code
		dst.Status = src.Status
	})
	unitHandler := handler.NewMasterHandler(unitService, "Unit", func(dst, src *model.Unit) {
		dst.Name = src.Name
		dst.Status = src.Status
	})
	warehouseHandler := handler.NewMasterHandler(warehouseService, "Warehouse", func(dst, src *model.Warehouse) {
		dst.Name = src.Name
		dst.Address = src.Address
		dst.Status = src.Status
	})

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory SKU Lifecycle v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RateLimiter(rdb))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	admin := middleware.RequireRole(model.RoleAdmin)

	// Master data
	categoryHandler.Register(protected.Group("/categories"), admin)
	unitHandler.Register(protected.Group("/units"), admin)
	warehouseHandler.Register(protected.Group("/warehouses"), admin)

	// Items
	items := protected.Group("/items")
	items.Get("/", itemHandler.GetItems)
	items.Get("/deleted", itemHandler.GetDeletedItems)
	items.Get("/:id", itemHandler.GetItem)
	items.Post("/", itemHandler.CreateItem)
	items.Put("/:id", itemHandler.UpdateItem)
	items.Patch("/:id/soft-delete", itemHandler.SoftDeleteItem)
	items.Put("/:id/restore", itemHandler.RestoreItem)
	items.Delete("/:id/hard-delete", admin, itemHandler.HardDeleteItem)

	// SKUs
	sku := protected.Group("/sku")
	sku.Get("/", skuHandler.GetSkus)
	sku.Get("/deleted", skuHandler.GetDeletedSkus)
	sku.Get("/:id", skuHandler.GetSku)
	sku.Get("/:id/active-loan", loanHandler.ActiveLoan)
	sku.Post("/", skuHandler.CreateSku)
	sku.Patch("/:id", skuHandler.UpdateSku)
	sku.Patch("/:id/soft-delete", skuHandler.SoftDeleteSku)
	sku.Put("/:id/restore", skuHandler.RestoreSku)
	sku.Delete("/:id/hard-delete", admin, skuHandler.HardDeleteSku)
	sku.Post("/:id/reset", admin, skuHandler.ResetSku)

	// Scan workflow
	protected.Get("/scan/:code", skuHandler.Lookup)

	// Loans
	loans := protected.Group("/loans")
	loans.Get("/", loanHandler.GetLoans)
	loans.Get("/:id", loanHandler.GetLoan)
	loans.Post("/", loanHandler.CreateLoan)
	loans.Post("/:id/return", loanHandler.ReturnLoan)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin operator if it doesn't exist
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Master Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s (ADMIN)", email)
}
