// seed inicializa el esquema, crea la lista semilla de usuarios del hogar y
// opcionalmente importa el catálogo desde un CSV local.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/comprascasa/compras-api/internal/application/auth"
	"github.com/comprascasa/compras-api/internal/application/usecase"
	infracatalog "github.com/comprascasa/compras-api/internal/infrastructure/catalog"
	"github.com/comprascasa/compras-api/internal/infrastructure/postgres"
	"github.com/comprascasa/compras-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Inicializar esquema: %v\n", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(pool)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: cfg.JWT.Secret})
	created, err := authUC.SeedDefaultUsers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar usuarios: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Usuarios creados: %d\n", created)

	// Catálogo opcional desde CSV local
	csvPath := cfg.Catalog.FilePath
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if csvPath == "" {
		fmt.Println("Sin CSV de catálogo; listo.")
		return
	}

	productRepo := postgres.NewProductRepository(pool)
	feed := infracatalog.NewCSVFeed("", csvPath)
	catalogUC := usecase.NewCatalogUseCase(productRepo, feed)
	res, err := catalogUC.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sincronizar catálogo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Catálogo (%s): %d creados, %d actualizados, %d saltados\n",
		csvPath, res.Created, res.Updated, res.Skipped)
}
