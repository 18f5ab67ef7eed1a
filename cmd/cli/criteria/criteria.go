// Package criteria inspects the audit criteria database from the command line.
package criteria

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/miljoverk/samsvar/internal/repositories"
	"github.com/miljoverk/samsvar/internal/sqlite"
)

var Group = &cobra.Group{
	ID:    "criteria",
	Title: "Audit criteria operations",
}

func init() {
	List.Flags().String("sqlite-url", "./samsvar.sqlite", "SQLite URL with the audit criteria")
	Show.Flags().String("sqlite-url", "./samsvar.sqlite", "SQLite URL with the audit criteria")
}

var List = &cobra.Command{
	Use:     "list",
	GroupID: "criteria",
	Short:   "List audit criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := list(cmd); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var Show = &cobra.Command{
	Use:     "show [criteria-id]",
	GroupID: "criteria",
	Short:   "Show the full context for one audit criteria",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := show(cmd, args[0]); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func newRepository(ctx context.Context, cmd *cobra.Command) (*repositories.CriteriaRepository, func(), error) {
	sqliteURL, err := cmd.Flags().GetString("sqlite-url")
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbs, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		_ = dbs.Close()
	}
	return repositories.NewCriteriaRepository(dbs, logger), closeDB, nil
}

func list(cmd *cobra.Command) error {
	ctx := context.Background()
	repo, closeDB, err := newRepository(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	listings, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, listing := range listings {
		fmt.Printf("%s\t%s\t%s / %s\n", listing.CriteriaID, listing.Name, listing.CategoryName, listing.IssueName)
	}
	return nil
}

func show(cmd *cobra.Command, criteriaID string) error {
	ctx := context.Background()
	repo, closeDB, err := newRepository(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	criteriaContext, err := repo.Comprehensive(ctx, criteriaID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "    ")
	return encoder.Encode(criteriaContext)
}
