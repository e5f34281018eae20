package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"ladder-quiz/internal/importer"
	"ladder-quiz/internal/infra/file"
	"ladder-quiz/internal/infra/postgres"
	"ladder-quiz/pkg/logger"
)

// NewImportCmd converts a question workbook into the pipe-delimited bank or
// the questions table.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		out        string
		toPostgres bool
	)
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Import questions from an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), *configPath, args[0], out, toPostgres)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "question file to write (defaults to questions.path)")
	cmd.Flags().BoolVar(&toPostgres, "postgres", false, "replace the questions table instead of writing a file")
	return cmd
}

func runImport(ctx context.Context, w io.Writer, configPath, workbook, out string, toPostgres bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	questions, rowErrs, err := importer.ReadWorkbookFile(workbook)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		logger.Warn("skipping workbook row", "sheet", re.Sheet, "row", re.Row, "error", re.Err.Error())
	}
	if len(questions) == 0 {
		return fmt.Errorf("no usable questions in %s", workbook)
	}

	if toPostgres {
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured")
		}
		db := postgres.OpenBun(cfg.Postgres.URL)
		err := postgres.Migrate(ctx, db)
		db.Close()
		if err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := postgres.NewQuestionLoader(pool).ReplaceQuestions(ctx, questions); err != nil {
			return err
		}
		fmt.Fprintf(w, "imported %d questions into postgres (%d rows skipped)\n", len(questions), len(rowErrs))
		return nil
	}

	if out == "" {
		out = cfg.Questions.Path
	}
	if err := file.WriteQuestions(out, questions); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %d questions to %s (%d rows skipped)\n", len(questions), out, len(rowErrs))
	return nil
}
