// Command seed loads a small demo catalog: four categories and six products.
// Re-running it is safe; categories are matched by slug and products by name.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository/postgres"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/migrations"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

type seedCategory struct {
	Name        string
	Slug        string
	Description string
}

type seedProduct struct {
	Name          string
	Description   string
	Price         string
	OriginalPrice string
	Category      string // slug
	Image         string
	Stock         int
	Sizes         []string
	Colors        []string
	IsNew         bool
	IsSale        bool
	IsLimited     bool
}

var categories = []seedCategory{
	{"Dresses", "dresses", "Beautiful dresses for every occasion"},
	{"Tops", "tops", "Stylish tops and blouses"},
	{"Bottoms", "bottoms", "Pants, skirts, and shorts"},
	{"Accessories", "accessories", "Jewelry, bags, and more"},
}

var products = []seedProduct{
	{
		Name:        "Flowing Summer Dress",
		Description: "This beautiful flowing summer dress features a flattering silhouette perfect for any occasion. Made from premium lightweight fabric for ultimate comfort and style.",
		Price:       "89.99",
		Category:    "dresses",
		Image:       "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=800",
		Stock:       25,
		Sizes:       []string{"XS", "S", "M", "L", "XL"},
		Colors:      []string{"Navy", "Pink", "White"},
		IsNew:       true,
	},
	{
		Name:        "Cropped Blazer",
		Description: "A stylish cropped blazer perfect for professional and casual wear.",
		Price:       "129.99",
		Category:    "tops",
		Image:       "https://images.unsplash.com/photo-1551028719-00167b16eac5?auto=format&fit=crop&w=800&h=800",
		Stock:       15,
		Sizes:       []string{"XS", "S", "M", "L", "XL"},
		Colors:      []string{"Black", "Navy", "Beige"},
	},
	{
		Name:          "High-Waisted Jeans",
		Description:   "Classic high-waisted jeans with a modern fit.",
		Price:         "69.99",
		OriginalPrice: "99.99",
		Category:      "bottoms",
		Image:         "https://images.unsplash.com/photo-1542272604-787c3835535d?auto=format&fit=crop&w=800&h=800",
		Stock:         30,
		Sizes:         []string{"24", "26", "28", "30", "32"},
		Colors:        []string{"Dark Blue", "Light Blue", "Black"},
		IsSale:        true,
	},
	{
		Name:        "Layered Necklace Set",
		Description: "Delicate layered gold necklaces that can be worn together or separately.",
		Price:       "49.99",
		Category:    "accessories",
		Image:       "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?auto=format&fit=crop&w=800&h=800",
		Stock:       50,
		Colors:      []string{"Gold", "Silver", "Rose Gold"},
	},
	{
		Name:        "Silk Blouse",
		Description: "Elegant silk blouse perfect for work or special occasions.",
		Price:       "95.99",
		Category:    "tops",
		Image:       "https://images.unsplash.com/photo-1564557287817-3785e38ec1f5?auto=format&fit=crop&w=800&h=800",
		Stock:       20,
		Sizes:       []string{"XS", "S", "M", "L", "XL"},
		Colors:      []string{"Ivory", "Black", "Blush"},
	},
	{
		Name:        "Leather Handbag",
		Description: "Premium leather handbag with timeless design.",
		Price:       "199.99",
		Category:    "accessories",
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&w=800&h=800",
		Stock:       10,
		Colors:      []string{"Black", "Brown", "Tan"},
		IsLimited:   true,
	},
}

func main() {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("storefront-seed", cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("database seeded successfully")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	catalog := service.NewCatalogService(productRepo, categoryRepo, event.NewProducer(nil, log), log)

	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		existing, err := categoryRepo.GetBySlug(ctx, c.Slug)
		switch {
		case err == nil:
			categoryIDs[c.Slug] = existing.ID
			log.Info("category exists, skipping", slog.String("slug", c.Slug))
			continue
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("look up category %s: %w", c.Slug, err)
		}

		created, err := catalog.CreateCategory(ctx, &service.CreateCategoryInput{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		})
		if err != nil {
			return fmt.Errorf("create category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = created.ID
	}

	current, err := productRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	have := make(map[string]bool, len(current))
	for _, p := range current {
		have[p.Name] = true
	}

	for _, p := range products {
		if have[p.Name] {
			log.Info("product exists, skipping", slog.String("name", p.Name))
			continue
		}

		input, err := p.input(categoryIDs[p.Category])
		if err != nil {
			return err
		}
		if _, err := catalog.CreateProduct(ctx, input); err != nil {
			return fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}
	return nil
}

func (p seedProduct) input(categoryID int64) (*service.CreateProductInput, error) {
	price, err := domain.NewMoney(p.Price)
	if err != nil {
		return nil, fmt.Errorf("price of %q: %w", p.Name, err)
	}
	in := &service.CreateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		CategoryID:  &categoryID,
		Images:      []string{p.Image},
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		IsNew:       p.IsNew,
		IsSale:      p.IsSale,
		IsLimited:   p.IsLimited,
	}
	if p.OriginalPrice != "" {
		original, err := domain.NewMoney(p.OriginalPrice)
		if err != nil {
			return nil, fmt.Errorf("original price of %q: %w", p.Name, err)
		}
		in.OriginalPrice = &original
	}
	return in, nil
}
