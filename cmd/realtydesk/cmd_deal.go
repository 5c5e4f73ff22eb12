package main

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

func (c *cli) dealCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Open, close and list transactions",
	}
	cmd.AddCommand(c.dealOpenCmd(), c.dealCompleteCmd(), c.dealCancelCmd(), c.dealListCmd())
	return cmd
}

func (c *cli) dealOpenCmd() *cobra.Command {
	var (
		propertyID, clientID string
		agentID              string
		kind, date           string
		amount               float64
	)
	cmd := &cobra.Command{
		Use:     "open",
		Short:   "Start a deal; the property becomes pending",
		Example: `  realtydesk deal open --property 1719427 --client 1719428 --amount 440000`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tx domain.Transaction
			var err error
			if tx.PropertyID, err = parseID(propertyID); err != nil {
				return err
			}
			if tx.ClientID, err = parseID(clientID); err != nil {
				return err
			}
			if agentID != "" {
				if tx.AgentID, err = parseID(agentID); err != nil {
					return err
				}
			}
			if tx.Kind, err = domain.ParseDealKind(kind); err != nil {
				return err
			}
			tx.Amount = amount
			if date != "" {
				if tx.Date, err = dateparse.ParseIn(date, time.Local); err != nil {
					return domain.NewValidationError("date", "%v", err)
				}
			}
			tx, err = c.app.Deals().Open(cmd.Context(), tx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "opened deal %d, commission %s\n", tx.ID, common.FormatMoney(tx.Commission))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&propertyID, "property", "", "property id (required)")
	f.StringVar(&clientID, "client", "", "client id (required)")
	f.StringVar(&agentID, "agent", "", "agent id (default the listing agent)")
	f.StringVar(&kind, "kind", string(domain.DealSale), "sale or rent")
	f.Float64Var(&amount, "amount", 0, "agreed amount")
	f.StringVar(&date, "date", "", "deal date (default now)")
	return cmd
}

func (c *cli) dealCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Close a deal; the property becomes sold",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tx, err := c.app.Deals().Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deal %d %s\n", tx.ID, tx.Status)
			return nil
		},
	}
}

func (c *cli) dealCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Call off a deal; the property is available again",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tx, err := c.app.Deals().Cancel(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deal %d %s\n", tx.ID, tx.Status)
			return nil
		},
	}
}

func (c *cli) dealListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every deal",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := c.app.Deals().List(cmd.Context())
			if err != nil {
				return err
			}
			return printDeals(cmd.OutOrStdout(), txs)
		},
	}
}
