package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pulse/internal/core"
	"pulse/internal/identity"
	"pulse/internal/ingest"
	"pulse/internal/log"
	"pulse/internal/pdftext"
	"pulse/internal/storage"
)

func newImportCommand(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions into the ledger",
	}
	cmd.PersistentFlags().StringVar(&owner, "owner", "", "owner id the transactions belong to")
	_ = cmd.MarkPersistentFlagRequired("owner")

	run := func(cmd *cobra.Command, source core.ImportSource, data []byte) error {
		loc, err := a.location()
		if err != nil {
			return err
		}
		categorizer, err := a.categorizer()
		if err != nil {
			return err
		}
		if err := storage.RunMigrations(a.dbPath); err != nil {
			return err
		}
		repo, err := storage.NewSQLiteRepository(a.dbPath)
		if err != nil {
			return err
		}
		defer repo.Close()

		pipeline := ingest.NewPipeline(repo,
			pdftext.New(pdftext.WithMaxPages(a.cfg.PDFMaxPages), pdftext.WithLogger(a.logger)),
			categorizer,
			ingest.WithLocation(loc),
			ingest.WithLogger(a.logger.WithComponent(log.ComponentIngest)),
		)
		report, err := pipeline.Ingest(cmd.Context(), owner, source, data)
		if err != nil {
			var layoutErr *ingest.LayoutError
			if errors.As(err, &layoutErr) {
				a.logger.Error("Statement not recognized", "layout", layoutErr.Layout)
			}
			return err
		}
		printReport(cmd, report)
		return nil
	}

	fileCmd := func(use string, source core.ImportSource, limit func() int64) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <file>",
			Short: "Import a " + strings.ToUpper(use) + " statement",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readLimited(args[0], limit())
				if err != nil {
					return err
				}
				return run(cmd, source, data)
			},
		}
	}

	cmd.AddCommand(
		fileCmd("csv", core.SourceCSV, func() int64 { return a.cfg.CSVMaxBytes }),
		fileCmd("pdf", core.SourcePDF, func() int64 { return a.cfg.PDFMaxBytes }),
		&cobra.Command{
			Use:   "mock",
			Short: "Import the built-in aggregator feed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, core.SourceMock, nil)
			},
		},
	)
	return cmd
}

func printReport(cmd *cobra.Command, r ingest.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Message())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "import\t%s\n", r.ImportID)
	if r.Layout != "" {
		fmt.Fprintf(tw, "layout\t%s\n", r.Layout)
	}
	if r.Received > 0 {
		fmt.Fprintf(tw, "received\t%d\n", r.Received)
	}
	fmt.Fprintf(tw, "candidates\t%d\n", r.Candidates)
	fmt.Fprintf(tw, "rejected\t%d\n", r.Rejected)
	fmt.Fprintf(tw, "duplicates\t%d\n", r.Duplicates)
	fmt.Fprintf(tw, "inserted\t%d\n", r.Inserted)
	_ = tw.Flush()
}

func newDetectCommand(a *app) *cobra.Command {
	var showRows bool

	cmd := &cobra.Command{
		Use:   "detect <file.pdf>",
		Short: "Show the detected layout and rows of a PDF statement without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.location()
			if err != nil {
				return err
			}
			categorizer, err := a.categorizer()
			if err != nil {
				return err
			}
			data, err := readLimited(args[0], a.cfg.PDFMaxBytes)
			if err != nil {
				return err
			}
			text, err := pdftext.New(pdftext.WithMaxPages(a.cfg.PDFMaxPages), pdftext.WithLogger(a.logger)).
				ExtractText(cmd.Context(), data)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return ingest.ErrNoExtractableText
			}

			parsed := ingest.ParseStatementText(text, loc)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "layout: %s\nrows: %d\nrejected: %d\nduplicates: %d\n",
				parsed.Layout, len(parsed.Rows), parsed.Rejected, parsed.Duplicates)
			if !showRows {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range parsed.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Date.Format("2006-01-02"), r.Direction,
					core.FormatAmount(r.Amount), categorizer.Categorize(r.Description), r.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&showRows, "rows", false, "print every recognized row")
	return cmd
}

func newCategorizeCommand(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "categorize [description...]",
		Short: "Print the category a description maps to",
		RunE: func(cmd *cobra.Command, args []string) error {
			categorizer, err := a.categorizer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if list {
				for _, c := range categorizer.Categories() {
					fmt.Fprintln(out, c)
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("a description is required")
			}
			fmt.Fprintln(out, categorizer.Categorize(strings.Join(args, " ")))
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list every configured category")
	return cmd
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := storage.RunMigrations(a.dbPath); err != nil {
				return err
			}
			version, dirty, err := storage.MigrationVersion(a.dbPath)
			if err != nil {
				return err
			}
			a.logger.Info("Migrations applied", "path", a.dbPath)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}

// newTokenCommand signs a bearer token for local use against the API.
func newTokenCommand(a *app) *cobra.Command {
	var (
		id  identity.Identity
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := identity.NewVerifier(a.cfg.JWTSecret, a.cfg.AuthCookieName).Sign(id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&id.OwnerID, "owner", "", "owner id placed in the token")
	cmd.Flags().StringVar(&id.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&id.Name, "name", "", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func readLimited(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%s is %d bytes, over the %d byte limit", path, info.Size(), limit)
	}
	return os.ReadFile(path)
}

