package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/internal/report"
)

func (c *cli) reportCommands() []*cobra.Command {
	return []*cobra.Command{
		c.reportCmd(),
		c.exportPropertiesCmd(),
		c.importPropertiesCmd(),
	}
}

// output renders into memory and writes the result to path, or to w when
// path is "" or "-". A failed render leaves path untouched.
func output(path string, w io.Writer, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err := buf.WriteTo(w)
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func (c *cli) reportCmd() *cobra.Command {
	var kind, fields, format, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a CSV or XLSX report of selected columns",
		Long: `Write one row per record with the columns given by --fields. Without
--fields the columns configured under report.* are used.

Property columns: ` + strings.Join(domain.PropertyFields, ", ") + `
Client columns: ` + strings.Join(domain.ClientFields, ", ") + `
Agent columns: ` + strings.Join(domain.AgentFields, ", ") + `
Transaction columns: ` + strings.Join(domain.TransactionFields, ", "),
		Example: `  realtydesk report --kind properties --fields id,address,price_display --out listings.csv`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sheet := report.Sheet{Name: kind}
			switch kind {
			case "properties":
				props, err := c.app.Properties().List(ctx)
				if err != nil {
					return err
				}
				sheet.Records, sheet.Fields = report.Properties(props), c.cfg.Report.PropertyFields
			case "clients":
				clients, err := c.app.Clients().List(ctx)
				if err != nil {
					return err
				}
				sheet.Records, sheet.Fields = report.Clients(clients), c.cfg.Report.ClientFields
			case "agents":
				agents, err := c.app.Agents().List(ctx)
				if err != nil {
					return err
				}
				sheet.Records, sheet.Fields = report.Agents(agents), c.cfg.Report.AgentFields
			case "transactions":
				txs, err := c.app.Deals().List(ctx)
				if err != nil {
					return err
				}
				sheet.Records, sheet.Fields = report.Transactions(txs), c.cfg.Report.TransactionFields
			default:
				return domain.NewValidationError("kind", "unknown report kind %q", kind)
			}
			if fields != "" {
				sheet.Fields = report.ParseFields(fields)
			}

			var render func(io.Writer) error
			switch format {
			case "csv":
				render = func(w io.Writer) error { return report.GenerateCSV(w, sheet.Records, sheet.Fields) }
			case "xlsx":
				render = func(w io.Writer) error { return report.WriteWorkbook(w, sheet) }
			default:
				return domain.NewValidationError("format", "unknown format %q", format)
			}
			return output(out, cmd.OutOrStdout(), render)
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "kind", "properties", "properties, clients, agents or transactions")
	f.StringVar(&fields, "fields", "", "comma separated column names")
	f.StringVar(&format, "format", "csv", "csv or xlsx")
	f.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) exportPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-properties FILE",
		Short: "Write every property column to a CSV file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := c.app.Properties().List(cmd.Context())
			if err != nil {
				return err
			}
			err = output(args[0], cmd.OutOrStdout(), func(w io.Writer) error {
				return report.ExportProperties(w, props)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d properties\n", len(props))
			return nil
		},
	}
}

func (c *cli) importPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-properties FILE",
		Short: "Add the properties of an exported CSV file",
		Long:  "Each row is added as a new property with a fresh id. Rows are validated before any is added.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()
			props, err := report.ImportProperties(f)
			if err != nil {
				return err
			}
			for i := range props {
				props[i].Normalize()
				if props[i].Status == "" {
					props[i].Status = domain.StatusAvailable
				}
				if err := props[i].Validate(); err != nil {
					return errors.Wrapf(err, "row %d", i+1)
				}
			}
			for _, p := range props {
				if _, err := c.app.Properties().Add(cmd.Context(), p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d properties\n", len(props))
			return nil
		},
	}
}
