package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hourbook/hourbook-backend/internal/report"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type reportOptions struct {
	employeeID int64
	start      string
	end        string
	format     string
	out        string
	rate       float64
	multiplier float64
}

// parsed holds validated flag values
type parsed struct {
	start  time.Time
	end    time.Time
	format report.Format
}

func (o *reportOptions) parse() (*parsed, error) {
	if o.employeeID <= 0 {
		return nil, errors.New("--employee must be a positive id")
	}
	start, err := time.Parse(dateLayout, o.start)
	if err != nil {
		return nil, errors.New("--start must be a YYYY-MM-DD date")
	}
	end, err := time.Parse(dateLayout, o.end)
	if err != nil {
		return nil, errors.New("--end must be a YYYY-MM-DD date")
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return nil, errors.New("--format must be json or pdf")
	}
	return &parsed{start: start, end: end, format: format}, nil
}

func newReportCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate employee reports",
	}

	cmd.AddCommand(
		newReportSubCmd(root, "manager", "Hours-only report for one employee", false),
		newReportSubCmd(root, "owner", "Report with labour costs for one employee", true),
	)
	return cmd
}

func newReportSubCmd(root *rootOptions, use, short string, withCosts bool) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.parse()
			if err != nil {
				return err
			}

			a, closeDB, err := root.application()
			if err != nil {
				return err
			}
			defer closeDB()

			var result *report.Result
			if withCosts {
				rates := a.ReportDefaults()
				if cmd.Flags().Changed("rate") {
					rates.HourlyRate = numeric.FromFloat(opts.rate)
				}
				if cmd.Flags().Changed("multiplier") {
					rates.OvertimeMultiplier = numeric.FromFloat(opts.multiplier)
				}
				result, err = a.Reports.OwnerReport(cmd.Context(), opts.employeeID, p.start, p.end, p.format, rates)
			} else {
				result, err = a.Reports.ManagerReport(cmd.Context(), opts.employeeID, p.start, p.end, p.format)
			}
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), opts.out, result)
		},
	}

	cmd.Flags().Int64Var(&opts.employeeID, "employee", 0, "Employee id")
	cmd.Flags().StringVar(&opts.start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or pdf")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (json defaults to stdout, pdf to the generated file name)")
	if withCosts {
		cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Hourly rate (defaults to report.hourly_rate)")
		cmd.Flags().Float64Var(&opts.multiplier, "multiplier", 0, "Overtime multiplier (defaults to report.overtime_multiplier)")
	}

	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// writeResult writes JSON to out (stdout when empty) and PDFs to a file
func writeResult(stdout io.Writer, out string, result *report.Result) error {
	if result.JSON != nil {
		w := stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result.JSON)
	}

	if out == "" {
		out = result.Filename
	}
	if err := os.WriteFile(out, result.Document, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "report written to %s\n", out)
	return nil
}
