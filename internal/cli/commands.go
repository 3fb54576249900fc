// Package cli holds the management commands run by cmd/manage.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// DBOpener connects to the configured database.
type DBOpener func() (*gorm.DB, error)

// DefaultTags are created by load-tags when no --tag flag is given.
var DefaultTags = []string{"Breakfast:breakfast", "Lunch:lunch", "Dinner:dinner"}

// NewRootCmd assembles the manage command tree.
func NewRootCmd(open DBOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "manage",
		Short:         "Foodgram maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewMigrateCmd(open))
	root.AddCommand(NewLoadIngredientsCmd(open))
	root.AddCommand(NewLoadTagsCmd(open))
	return root
}

func NewMigrateCmd(open DBOpener) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db, dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "migrations", "directory holding the .sql migration files")
	return cmd
}

func NewLoadIngredientsCmd(open DBOpener) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "load-ingredients",
		Short: "Load ingredients from a name,measurement_unit CSV file",
		Long: `Loads the ingredient catalogue from a CSV file with the header
"name,measurement_unit". Nothing is loaded when ingredients already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening %s: %w", file, err)
			}
			defer f.Close()

			db, err := open()
			if err != nil {
				return err
			}
			n, err := service.NewIngredientService(db).LoadCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d ingredients\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/ingredients.csv", "CSV file to load")
	return cmd
}

func NewLoadTagsCmd(open DBOpener) *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "load-tags",
		Short: "Create tags that do not exist yet",
		Example: `  manage load-tags
  manage load-tags --tag Dessert:dessert --tag Vegan:vegan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := parseTags(values)
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			n, err := service.NewTagService(db).Ensure(cmd.Context(), tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d tags\n", n)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&values, "tag", "t", DefaultTags, "tag as Name:slug, repeatable")
	return cmd
}

func parseTags(values []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(values))
	for _, raw := range values {
		name, slug, ok := strings.Cut(raw, ":")
		name, slug = strings.TrimSpace(name), strings.TrimSpace(slug)
		if !ok || name == "" || slug == "" {
			return nil, fmt.Errorf("invalid tag %q, want Name:slug", raw)
		}
		tags = append(tags, models.Tag{Name: name, Slug: slug})
	}
	return tags, nil
}
