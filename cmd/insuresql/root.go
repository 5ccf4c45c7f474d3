package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-sql/civil"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bgunnarsson/insuresql/internal/app"
	"github.com/bgunnarsson/insuresql/internal/config"
	"github.com/bgunnarsson/insuresql/internal/insurance"
	"github.com/bgunnarsson/insuresql/internal/logger"
)

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "insuresql",
		Short:         "Query the insurance schema (products, customers, contracts)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Init(&logger.Config{
				Level:      logger.LogLevel(cfg.LogLevel),
				Output:     cmd.ErrOrStderr(),
				JSON:       cfg.LogJSON,
				Color:      term.IsTerminal(int(os.Stderr.Fd())),
				TimeFormat: "15:04:05",
			})
			l := logger.GetDefault().With("cmd", cmd.Name())
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), l))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Driver, "driver", cfg.Driver, "database driver: sqlite, postgres, mssql, mysql")
	flags.StringVar(&cfg.DSN, "dsn", cfg.DSN, "data source name (file path for sqlite)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")
	flags.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "max derived column width in tables")

	// withSession opens the configured database around fn.
	withSession := func(cmd *cobra.Command, fn func(ctx context.Context, s *app.Session) error) error {
		s, err := app.Open(app.Driver(cfg.Driver), cfg.DSN, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer s.Close()
		s.MaxWidth = cfg.MaxWidth
		return fn(cmd.Context(), s)
	}

	root.AddCommand(
		productsCmd(withSession),
		customerCmd(withSession),
		contractCmd(withSession),
		rateCmd(withSession),
		queryCmd(withSession),
		tablesCmd(withSession),
		describeCmd(withSession),
		migrateCmd(withSession),
	)
	return root
}

type sessionRunner func(cmd *cobra.Command, fn func(ctx context.Context, s *app.Session) error) error

func productsCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List product short names (KurzBez)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.Products(ctx)
			})
		},
	}
}

func customerCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "customer <id>",
		Short: "Show a customer by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("customer id", args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.Customer(ctx, id)
			})
		},
	}
}

func contractCmd(run sessionRunner) *cobra.Command {
	contract := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts (Vertrag)",
	}
	contract.AddCommand(&cobra.Command{
		Use:   "create <id> <productID> <customerID> <YYYY-MM-DD>",
		Short: "Insert a contract starting at the given date",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c insurance.Contract
			var err error
			if c.ID, err = parseID("contract id", args[0]); err != nil {
				return err
			}
			if c.ProductID, err = parseID("product id", args[1]); err != nil {
				return err
			}
			if c.CustomerID, err = parseID("customer id", args[2]); err != nil {
				return err
			}
			if c.InsuranceStart, err = civil.ParseDate(args[3]); err != nil {
				return fmt.Errorf("invalid start date %q: %w", args[3], err)
			}
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.CreateContract(ctx, c)
			})
		},
	})
	return contract
}

func rateCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <contractID>",
		Short: "Monthly rate of a contract: days between start and end / 30",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("contract id", args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.Rate(ctx, id)
			})
		},
	}
}

func queryCmd(run sessionRunner) *cobra.Command {
	var widths []int
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL statement and print the result as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("widths") {
				widths = nil
			}
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.RunQuery(ctx, args[0], widths)
			})
		},
	}
	cmd.Flags().IntSliceVar(&widths, "widths", nil, "display width per column, e.g. 10,20")
	return cmd
}

func tablesCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.Tables(ctx)
			})
		},
	}
}

func describeCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				return s.Describe(ctx, args[0])
			})
		},
	}
}

func migrateCmd(run sessionRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create and seed the insurance schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *app.Session) error {
				v, err := s.Migrate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.Out, "schema at version %d\n", v)
				return nil
			})
		},
	}
}

func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}
