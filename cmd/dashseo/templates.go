package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yamala-stream/DashSEO/internal/templates"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "List, inspect and manage prompt templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(),
		newTemplatesShowCmd(),
		newTemplatesCategoriesCmd(),
		newTemplatesSaveCmd(),
		newTemplatesImportCmd(),
		newTemplatesDeleteCmd(),
	)
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	var category, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			var list []templates.Summary
			switch {
			case query != "":
				list = e.repo.Search(ctx, query)
			case category != "":
				list = e.repo.ListByCategory(ctx, category).Templates
			default:
				list = e.repo.List(ctx)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tINTENT\tBUILT-IN")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", s.ID, s.Name, s.Category, s.Intent, s.IsBuiltin)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only templates in this category")
	cmd.Flags().StringVarP(&query, "search", "s", "", "fuzzy search by name, id, category and intent")
	return cmd
}

func newTemplatesShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a resolved template and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			rec := templates.WithDerivedFields(e.repo.Resolve(cmd.Context(), args[0]))
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "    ")
				enc.SetEscapeHTML(false)
				return enc.Encode(rec)
			}

			if rec.ID != args[0] {
				fmt.Fprintf(out, "%s not found, showing the fallback template\n\n", args[0])
			}
			fmt.Fprintln(out, titleStyle.Render(rec.Name))
			fmt.Fprintln(out, stat("ID", rec.ID))
			fmt.Fprintln(out, stat("Category", rec.CategoryOrDefault()))
			fmt.Fprintln(out, stat("Tone", rec.DefaultTone()))
			fmt.Fprintln(out, stat("Schema", rec.SchemaType()))
			fmt.Fprintln(out, stat("Built-in", rec.IsBuiltin()))
			if order := templates.FieldOrder(rec); len(order) > 0 {
				fmt.Fprintln(out, titleStyle.Render("Fields"))
				for _, name := range order {
					f := rec.Fields[name]
					fmt.Fprintf(out, "  %-24s %s (%s)\n", name, f.Label, f.Type)
				}
			}
			fmt.Fprintln(out, titleStyle.Render("Template"))
			fmt.Fprintln(out, strings.TrimSpace(rec.Body))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func newTemplatesCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with their templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			for _, g := range e.repo.GroupByCategory(cmd.Context()) {
				fmt.Fprintf(out, "%s %s (%d)\n", g.Icon, g.Name, len(g.Templates))
				for _, s := range g.Templates {
					fmt.Fprintf(out, "    %s  %s\n", s.ID, s.Name)
				}
			}
			return nil
		},
	}
}

func newTemplatesSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id> <file>",
		Short: "Store a template read from a YAML or JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			// YAML is a superset of the JSON written by the repository.
			var rec templates.Record
			if err := yaml.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}
			ok, err := e.repo.Save(cmd.Context(), args[0], rec)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s is a built-in template and cannot be modified", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		},
	}
}

func newTemplatesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import legacy prompt_body templates",
		Long:  "Import reads *.json and *.yaml files with a prompt_body key and stores each as a template, overwriting stored copies. dir defaults to the configured import directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			dir := e.cfg.Templates.ImportDir
			if len(args) == 1 {
				dir = args[0]
			}
			ids, err := e.repo.Import(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d templates from %s\n", len(ids), dir)
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+id)
			}
			return nil
		},
	}
}

func newTemplatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			id := args[0]
			if e.repo.Catalog().IsBuiltin(id) {
				return fmt.Errorf("%s is a built-in template and cannot be deleted", id)
			}
			ok, err := e.repo.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("template %s not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}
