package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/errors"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/infra/report"
	"ministry/internal/usecase"
	"ministry/internal/usecase/impl"
	"ministry/internal/util"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func reportCmd() *cobra.Command {
	var (
		output    string
		from, to  string
		status    string
		threshold int
	)

	cmd := &cobra.Command{
		Use:       "report <orders|users|products|stock>",
		Short:     "Render an admin report to a PDF file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"orders", "users", "products", "stock"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := &usecase.ReportInput{
				Type:      usecase.ReportType(args[0]),
				Status:    entity.OrderStatus(status),
				Threshold: threshold,
			}
			if !slices.Contains(usecase.ReportTypes(), input.Type) {
				return errors.Errorf("unknown report %q", args[0])
			}

			var err error
			if input.From, err = parseDay(from, false); err != nil {
				return err
			}
			if input.To, err = parseDay(to, true); err != nil {
				return err
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			reports := impl.NewReportService(impl.ReportServiceParams{
				OrderRepo:   postgres.NewOrderRepository(e.db),
				UserRepo:    postgres.NewUserRepository(e.db),
				ProductRepo: postgres.NewProductRepository(e.db),
				Renderer:    report.NewPDFRenderer(),
				Config:      e.cfg,
				Logger:      e.logger,
			})

			if output == "" {
				output = fmt.Sprintf("%s-report-%s.pdf", input.Type, time.Now().Format("20060102"))
			}
			started := time.Now()
			f, err := os.Create(output)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := reports.Render(cmd.Context(), f, input); err != nil {
				_ = f.Close()
				_ = os.Remove(output)

				return err
			}
			if err := f.Close(); err != nil {
				return errors.WithStack(err)
			}

			summary, err := util.SummarizeFile(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s in %s\n", summary, util.FormatDuration(time.Since(started)))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <type>-report-<date>.pdf)")
	cmd.Flags().StringVar(&from, "from", "", "orders placed on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "orders placed on or before this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "stock report threshold (default from config)")

	return cmd
}

func parseDay(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date %q", raw)
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}

	return &day, nil
}
