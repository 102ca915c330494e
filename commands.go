package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"doceria/config"
	"doceria/customer"
	"doceria/loader"
	"doceria/product"
	"doceria/user"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func loadSettings(opts *rootOptions) error {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.envFile, err)
	}
	config.SetPath(opts.configPath)
	if _, err := config.LoadConfig(); err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
	}
	return nil
}

func openDatabase() (*sqlx.DB, error) {
	path := config.GetConfig().Database.Path
	log.Println("Connecting to database...")
	db, err := loader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	log.Println("Database connection successful.")
	if err := loader.InitDatabase(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	log.Println("Database initialization complete.")
	return db, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			cfg := config.GetConfig()
			if cfg.Auth.JWTSecret == "" {
				cfg.Auth.JWTSecret = uuid.NewString() + uuid.NewString()
				config.Set(cfg)
				log.Println("WARN: DOCERIA_JWT_SECRET not set; sessions will not survive a restart.")
			}

			mux := http.NewServeMux()
			SetupRoutes(mux, db)

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}
			log.Printf("Starting server on http://localhost%s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server start error: %w", err)
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()
			counts, err := loader.TableCounts(db)
			if err != nil {
				return err
			}
			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %d\n", table, counts[table])
			}
			return nil
		},
	}
}

func newBootstrapOwnerCommand() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "bootstrap-owner",
		Short: "Create the first owner account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()
			uid, err := user.BootstrapOwner(db, email, name, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "owner %s created (uid %s)\n", email, uid)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email (required)")
	cmd.Flags().StringVar(&password, "password", "", "owner password, at least 6 characters (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newImportCommand() *cobra.Command {
	var storeID, charset string
	cmd := &cobra.Command{
		Use:       "import customers|products FILE",
		Short:     "Import a CSV spreadsheet into a store",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"customers", "products"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if kind != "customers" && kind != "products" {
				return fmt.Errorf("unknown import %q: want customers or products", kind)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if kind == "customers" {
				res, err := customer.Import(db, storeID, f, charset)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d created, %d updated\n", res.Created, res.Updated)
				for _, e := range res.Errors {
					fmt.Fprintln(out, "  "+e)
				}
				return nil
			}
			res, err := product.Import(db, storeID, f, charset)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d created, %d updated\n", res.Created, res.Updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&storeID, "store", "", "target store id (required)")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "file encoding: utf-8, windows-1252 or iso-8859-1")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}
