// 开发环境种子数据
// 写入示例分类与商品，已存在（按 slug）则跳过
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/internal/catalog/infrastructure/persistence/mysql"
	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/db"
	"github.com/qtremors/amanzon/pkg/logger"
)

type seedProduct struct {
	name          string
	slug          string
	description   string
	price         string
	originalPrice string
	stock         int
}

type seedCategory struct {
	name          string
	slug          string
	subcategories []string
	products      []seedProduct
}

var catalog = []seedCategory{
	{
		name: "Electronics", slug: "electronics",
		subcategories: []string{"Audio", "Accessories"},
		products: []seedProduct{
			{"Wireless Headphones", "wireless-headphones", "Over-ear, 30h battery.", "1999.00", "2999.00", 25},
			{"Mechanical Keyboard", "mechanical-keyboard", "Hot-swappable switches.", "3499.00", "3499.00", 15},
			{"USB-C Charger 65W", "usb-c-charger-65w", "GaN fast charger.", "1299.00", "1799.00", 40},
		},
	},
	{
		name: "Fashion", slug: "fashion",
		subcategories: []string{"Men", "Women"},
		products: []seedProduct{
			{"Cotton T-Shirt", "cotton-t-shirt", "Plain crew neck tee.", "399.00", "599.00", 100},
			{"Denim Jacket", "denim-jacket", "Classic fit.", "1499.00", "1999.00", 20},
		},
	},
	{
		name: "Home & Kitchen", slug: "home-kitchen",
		subcategories: []string{"Cookware"},
		products: []seedProduct{
			{"Cast Iron Skillet", "cast-iron-skillet", "Pre-seasoned, 26cm.", "899.00", "1299.00", 30},
			{"French Press", "french-press", "600ml borosilicate glass.", "649.00", "649.00", 18},
		},
	},
}

func main() {
	configPath := "configs/config.toml"
	if p := os.Getenv("APP_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: "info", Format: "text", Output: "stdout"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(&domain.Category{}, &domain.SubCategory{}, &domain.Product{}); err != nil {
		logger.Fatal(ctx, "Failed to migrate schema", "error", err)
	}

	categories := mysql.NewCategoryRepository(database.DB)
	products := mysql.NewProductRepository(database.DB)

	for _, sc := range catalog {
		category, err := categories.GetBySlug(ctx, sc.slug)
		if errors.Is(err, domain.ErrCategoryNotFound) {
			category = &domain.Category{Name: sc.name, Slug: sc.slug}
			for _, sub := range sc.subcategories {
				category.SubCategories = append(category.SubCategories, domain.SubCategory{
					Name: sub,
					Slug: slugify(sub),
				})
			}
			if err := categories.Save(ctx, category); err != nil {
				logger.Fatal(ctx, "Failed to seed category", "slug", sc.slug, "error", err)
			}
			logger.Info(ctx, "Seeded category", "slug", sc.slug)
		} else if err != nil {
			logger.Fatal(ctx, "Failed to look up category", "slug", sc.slug, "error", err)
		}

		for _, sp := range sc.products {
			if _, err := products.GetBySlug(ctx, sp.slug); err == nil {
				continue
			} else if !errors.Is(err, domain.ErrProductNotFound) {
				logger.Fatal(ctx, "Failed to look up product", "slug", sp.slug, "error", err)
			}

			product := &domain.Product{
				CategoryID:    category.ID,
				Name:          sp.name,
				Slug:          sp.slug,
				Description:   sp.description,
				Price:         decimal.RequireFromString(sp.price),
				OriginalPrice: decimal.RequireFromString(sp.originalPrice),
				Stock:         sp.stock,
				IsActive:      true,
			}
			if err := products.Save(ctx, product); err != nil {
				logger.Fatal(ctx, "Failed to seed product", "slug", sp.slug, "error", err)
			}
			logger.Info(ctx, "Seeded product", "slug", sp.slug)
		}
	}

	logger.Info(ctx, "Seeding complete")
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-':
			out = append(out, '-')
		}
	}
	return string(out)
}
