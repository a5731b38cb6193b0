// Package cli provides the Cobra-based operator CLI for the storefront.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Backend is what the commands need from the outside world
type Backend struct {
	Service service.ProductService
	DB      database.Service
	Config  *config.Config
	Logger  *zap.Logger
}

// Connector builds a Backend; tests substitute their own
type Connector func() (*Backend, error)

// Connect opens the configured database and wires the product service
func Connect() (*Backend, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	svc := service.NewProductService(
		repository.NewProductRepository(db.DB()),
		repository.NewCategoryRepository(db.DB()),
		log,
	)

	return &Backend{Service: svc, DB: db, Config: cfg, Logger: log}, nil
}

// NewRootCommand assembles the storectl command tree
func NewRootCommand(connect Connector) *cobra.Command {
	var backend *Backend

	rootCmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Operate the storefront database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			backend, err = connect()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if backend == nil || backend.DB == nil {
				return nil
			}
			return backend.DB.Close()
		},
	}

	rootCmd.AddCommand(
		newMigrateCommand(func() *Backend { return backend }),
		newProductsCommand(func() *Backend { return backend }),
	)

	return rootCmd
}

func newMigrateCommand(backend func() *Backend) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage schema migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				b := backend()
				return database.RunMigrations(b.DB.DB(), b.Config.Database.MigrationsDir, b.Logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				b := backend()
				return database.RollbackMigration(b.DB.DB(), b.Config.Database.MigrationsDir, b.Logger)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				b := backend()
				return database.GetMigrationStatus(b.DB.DB(), b.Config.Database.MigrationsDir)
			},
		},
	)

	return migrateCmd
}

func newProductsCommand(backend func() *Backend) *cobra.Command {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List, add and buy products",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List in-stock products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := backend().Service.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
			for _, p := range products {
				category := ""
				if p.Category != nil {
					category = p.Category.Name
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Name, category, p.Price, p.Stock)
			}
			return tw.Flush()
		},
	}

	var (
		name, image, category string
		price                 int64
		stock                 int
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product, creating its category if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.AddProductInput{
				Name:     name,
				Image:    image,
				Category: category,
			}
			if cmd.Flags().Changed("price") {
				in.Price = &price
			}
			if cmd.Flags().Changed("stock") {
				in.Stock = &stock
			}

			product, err := backend().Service.AddProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), "%s (id %d)", service.MsgProductAdded, product.ID)
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "product name")
	addCmd.Flags().Int64Var(&price, "price", 0, "price in whole currency units")
	addCmd.Flags().IntVar(&stock, "stock", 0, "initial stock")
	addCmd.Flags().StringVar(&image, "image", "", "image URL or filename")
	addCmd.Flags().StringVar(&category, "category", "", "category name")

	buyCmd := &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.New(service.MsgNotFound)
			}

			product, err := backend().Service.Purchase(cmd.Context(), id)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), "%s (%d left)", service.MsgProductBought, product.Stock)
		},
	}

	productsCmd.AddCommand(listCmd, addCmd, buyCmd)
	return productsCmd
}

func report(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
