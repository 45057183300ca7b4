package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"recipebook/internal/service"
	"recipebook/internal/store"
)

// Column names expected in the CSV header.
const (
	columnTitle       = "Title"
	columnDescription = "Description"
	columnIngredients = "Ingredients"
)

var (
	cleanWhitespace = regexp.MustCompile(`\s+`)
	bracketPattern  = regexp.MustCompile(`\[[^\]]*\]`)
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create or update recipes from a CSV file",
		Long: `Import recipes from a CSV file with the header Title,Description,Ingredients.

Ingredients are separated by ";" or ",". A row whose title matches an existing
recipe updates that recipe and replaces its ingredients.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readCSV(args[0])
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			entities := store.New(db)
			recipes := service.NewRecipeService(entities)

			created, updated := 0, 0
			for idx, record := range records {
				isNew, err := importRecord(ctx, entities, recipes, record)
				if err != nil {
					return fmt.Errorf("record %d (%s): %w", idx+1, record[columnTitle], err)
				}
				if isNew {
					created++
				} else {
					updated++
				}
			}

			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(),
				"Imported %d recipes from %s (%d created, %d updated)\n",
				created+updated, filepath.Base(args[0]), created, updated)
			return nil
		},
	}
}

// importRecord upserts one row by exact title. The create and update paths
// each run in a single transaction inside the service.
func importRecord(ctx context.Context, entities *store.Store, recipes *service.RecipeService, record map[string]string) (bool, error) {
	title := normalizeText(record[columnTitle])
	description := normalizeText(record[columnDescription])
	fields := service.RecipeFields{
		Title:          &title,
		Description:    &description,
		Ingredients:    splitIngredients(record[columnIngredients]),
		IngredientsSet: true,
	}

	existing, err := entities.FindRecipeByTitle(ctx, title)
	switch {
	case err == nil:
		_, err = recipes.Update(ctx, existing.ID, fields)
		return false, err
	case errors.Is(err, store.ErrNotFound):
		_, err = recipes.Create(ctx, fields)
		return true, err
	default:
		return false, err
	}
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	hasTitle := false
	for idx, key := range header {
		header[idx] = strings.TrimSpace(key)
		if header[idx] == columnTitle {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("csv header must include %q", columnTitle)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

// splitIngredients breaks a cell into ingredient names, dropping footnote
// markers like "[1]" and exact duplicates. Case is preserved because
// ingredient names match case-sensitively.
func splitIngredients(value string) []string {
	value = normalizeValue(value)
	if value == "" {
		return []string{}
	}

	parts := strings.Split(strings.ReplaceAll(value, ";", ","), ",")
	names := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		clean := normalizeText(bracketPattern.ReplaceAllString(part, ""))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		names = append(names, clean)
	}
	return names
}
