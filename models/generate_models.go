package models

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Column Mismatch Report Usage:

Compares the live schema (created by the goose migrations) with the column
tags on the record structs in this package.

1. Set GENERATE_COLUMN_REPORT=true
2. Start the binary; it prints the report and exits

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_score

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// Records maps every table to the struct that scans its rows.
func Records() map[string]any {
	return map[string]any{
		"categories":          CategoryRecord{},
		"projects":            ProjectRecord{},
		"tags":                Tag{},
		"chains":              Chain{},
		"news":                News{},
		"users":               User{},
		"user_bookmarks":      Bookmark{},
		"project_submissions": SubmissionRecord{},
	}
}

// GenerateModels writes typed gorm/gen query helpers for the record structs
// into outPath. The schema itself is owned by the migrations.
func GenerateModels(db *gorm.DB, outPath string) {
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db.Session(&gorm.Session{SkipDefaultTransaction: true}))

	g.ApplyBasic(
		CategoryRecord{},
		ProjectRecord{},
		Tag{},
		Chain{},
		News{},
		User{},
		Bookmark{},
		SubmissionRecord{},
	)

	g.Execute()
}

// GenerateColumnMismatchReport writes a report of database columns that no
// record struct field maps to. It returns the total number of mismatches.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (int, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	records := Records()
	tables := make([]string, 0, len(records))
	for table := range records {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, tableName := range tables {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return totalMismatches, err
		}
		if len(dbColumns) == 0 {
			fmt.Fprintln(out, "Table does not exist, run the migrations first.")
			continue
		}

		mismatches := findColumnMismatches(dbColumns, getModelFields(records[tableName]))
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	return columns, nil
}

// getModelFields reads the column names out of the gorm tags of a struct
func getModelFields(model any) []string {
	var fields []string
	t := reflect.TypeOf(model)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if columnName := extractColumnNameFromGormTag(field.Tag.Get("gorm")); columnName != "" {
			fields = append(fields, columnName)
		}
	}

	return fields
}

func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
