// Package di assembles the API server's dependency graph so main.go stays
// thin: external clients, repositories, usecases and the router deps.
package di

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	httpin "termstore/internal/adapters/in/http"
	dbrepo "termstore/internal/adapters/out/db"
	dbcommon "termstore/internal/adapters/out/db/common"
	fsrepo "termstore/internal/adapters/out/firestore"
	"termstore/internal/adapters/out/gcs"
	"termstore/internal/adapters/out/mail"
	usecase "termstore/internal/application/usecase"
	"termstore/internal/infra/config"
	"termstore/internal/infra/database"
	firestoreinfra "termstore/internal/infra/firestore"
)

// Container is the bundle main.go consumes.
type Container struct {
	Config *config.Config

	AuthUC    *usecase.AuthUsecase
	CatalogUC *usecase.CatalogUsecase
	CartUC    *usecase.CartUsecase
	OrderUC   *usecase.OrderUsecase

	Images *gcs.ProductImageStore

	db        *database.DB
	firestore *firestoreinfra.ClientWrapper
	gcsClient *storage.Client
}

// NewContainer builds the full dependency graph.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()
	if err := cfg.Resolve(ctx); err != nil {
		return nil, fmt.Errorf("di: resolve config: %w", err)
	}

	db, err := database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("di: postgres: %w", err)
	}

	fs, err := firestoreinfra.NewClient(ctx, cfg.ProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("di: firestore: %w", err)
	}

	c := &Container{Config: cfg, db: db, firestore: fs}

	// GCS is optional: no bucket, no images.
	if cfg.ImageBucket != "" {
		var opts []option.ClientOption
		if cfg.FirestoreCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
		}
		gc, err := storage.NewClient(ctx, opts...)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("di: gcs: %w", err)
		}
		c.gcsClient = gc
		c.Images = gcs.NewProductImageStore(gc, cfg.ImageBucket)
	} else {
		log.Printf("[di] PRODUCT_IMAGE_BUCKET not set; product images disabled")
	}

	// repositories
	profiles := dbrepo.NewProfileRepositoryPG(db.Client)
	catalog := dbrepo.NewCatalogRepositoryPG(db.Client)
	coupons := dbrepo.NewCouponRepositoryPG(db.Client)
	orders := dbrepo.NewOrderRepositoryPG(db.Client)
	carts := fsrepo.NewCartRepositoryFS(fs.Client)
	tokens := fsrepo.NewTokenRepositoryFS(fs.Client)

	// usecases
	c.AuthUC = usecase.NewAuthUsecase(profiles, tokens)
	c.CatalogUC = usecase.NewCatalogUsecase(catalog)
	c.CartUC = usecase.NewCartUsecase(carts, catalog)
	c.OrderUC = usecase.NewOrderUsecase(orders, carts, catalog, coupons).
		WithTransactor(&dbcommon.TxManager{DB: db.Client})

	if cfg.SendGridAPIKey != "" && cfg.MailFrom != "" {
		c.OrderUC = c.OrderUC.WithMail(mail.NewSendGridClient(cfg.SendGridAPIKey), cfg.MailFrom)
	} else {
		log.Printf("[di] sendgrid not configured; order confirmation mail disabled")
	}

	return c, nil
}

// RouterDeps exposes the handler dependency set.
func (c *Container) RouterDeps() httpin.RouterDeps {
	deps := httpin.RouterDeps{
		AuthUC:    c.AuthUC,
		CatalogUC: c.CatalogUC,
		CartUC:    c.CartUC,
		OrderUC:   c.OrderUC,
	}
	if c.Images != nil {
		deps.Images = c.Images
		deps.ImageUploads = c.Images
	}
	return deps
}

// Close releases owned clients.
func (c *Container) Close() {
	if c.gcsClient != nil {
		_ = c.gcsClient.Close()
	}
	if c.firestore != nil {
		_ = c.firestore.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
}
