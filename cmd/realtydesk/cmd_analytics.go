package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/analytics"
	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

func (c *cli) analyticsCommands() []*cobra.Command {
	return []*cobra.Command{
		c.trendCmd(),
		c.mortgageCmd(),
		c.matchCmd(),
		c.valueCmd(),
	}
}

func (c *cli) trendCmd() *cobra.Command {
	var groupBy string
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Price statistics per group of properties",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := c.app.Properties().List(cmd.Context())
			if err != nil {
				return err
			}
			trend, err := analytics.MarketTrend(props, groupBy)
			if err != nil {
				return err
			}
			overall, err := analytics.OverallTrend(props)
			if err != nil {
				return err
			}
			return printTrend(cmd.OutOrStdout(), groupBy, trend, overall)
		},
	}
	cmd.Flags().StringVar(&groupBy, "group-by", "type", "one of type, status, city, state, zip, bedrooms")
	return cmd
}

func (c *cli) mortgageCmd() *cobra.Command {
	var (
		principal, rate, price, down float64
		termMonths, years            int
	)
	cmd := &cobra.Command{
		Use:   "mortgage",
		Short: "Monthly payment of a fixed-rate loan",
		Long: `Compute the monthly payment for --principal over --term-months, or a full
quote for buying at --price with --down paid upfront over --years.
--rate is the annual rate as a fraction (0.06 for 6%).`,
		Example: `  realtydesk mortgage --principal 200000 --rate 0.06 --term-months 360
  realtydesk mortgage --price 450000 --down 90000 --rate 0.065 --years 30`,
		Annotations: map[string]string{annotationStandalone: "true"},
		Args:        exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if cmd.Flags().Changed("price") {
				q, err := analytics.MortgageQuote(price, down, rate, years)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Loan amount:     %s\n", common.FormatMoney(q.LoanAmount))
				fmt.Fprintf(w, "Monthly payment: %s\n", common.FormatMoney(q.MonthlyPayment))
				fmt.Fprintf(w, "Total payment:   %s\n", common.FormatMoney(q.TotalPayment))
				fmt.Fprintf(w, "Total interest:  %s\n", common.FormatMoney(q.TotalInterest))
				return nil
			}
			m, err := analytics.MortgagePayment(principal, rate, termMonths)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Monthly payment: %s\n", common.FormatMoney(m))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&principal, "principal", 0, "loan principal")
	f.Float64Var(&rate, "rate", 0, "annual interest rate as a fraction")
	f.IntVar(&termMonths, "term-months", 360, "loan term in months")
	f.Float64Var(&price, "price", 0, "purchase price")
	f.Float64Var(&down, "down", 0, "down payment")
	f.IntVar(&years, "years", 30, "loan term in years")
	cmd.MarkFlagsMutuallyExclusive("principal", "price")
	return cmd
}

func (c *cli) matchCmd() *cobra.Command {
	var (
		clientID string
		opts     analytics.MatchOptions
		notify   bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank available properties for buyers and tenants",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("threshold") {
				opts.Threshold = c.cfg.Match.Threshold
			}
			if !cmd.Flags().Changed("limit") {
				opts.Limit = c.cfg.Match.Limit
			}

			var clients []domain.Client
			if clientID != "" {
				id, err := parseID(clientID)
				if err != nil {
					return err
				}
				cl, err := c.app.Clients().Get(ctx, id)
				if err != nil {
					return err
				}
				if !cl.Type.Seeking() {
					return domain.NewValidationError("client", "client %d is a %s, not a buyer or tenant", id, cl.Type)
				}
				clients = []domain.Client{cl}
			} else {
				var err error
				if clients, err = c.app.Clients().List(ctx); err != nil {
					return err
				}
			}
			props, err := c.app.Properties().List(ctx)
			if err != nil {
				return err
			}

			all, err := analytics.MatchClients(clients, props, opts)
			if err != nil {
				return err
			}
			if err := printMatches(cmd.OutOrStdout(), all); err != nil {
				return err
			}
			if !notify {
				return nil
			}
			sent, err := c.app.Mailer().Send(all)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "sent %d match digests\n", sent)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&clientID, "client", "", "only this client")
	f.Float64Var(&opts.Threshold, "threshold", analytics.DefaultMatchThreshold, "minimum score, 0 to 1")
	f.IntVar(&opts.Limit, "limit", analytics.DefaultMatchLimit, "matches per client")
	f.BoolVar(&notify, "notify", false, "email each client their matches")
	return cmd
}

func (c *cli) valueCmd() *cobra.Command {
	var comps []int64
	cmd := &cobra.Command{
		Use:   "value ID",
		Short: "Estimate a property's value from comparable sales",
		Long: `Average the prices of the comparable properties and add 5% of the
property's own price for each of Garage, Pool and Renovated. Without --comps,
other properties of the same type in the same city are used.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			subject, err := c.app.Properties().Get(ctx, id)
			if err != nil {
				return err
			}

			var compProps []domain.Property
			if len(comps) > 0 {
				for _, cid := range comps {
					p, err := c.app.Properties().Get(ctx, cid)
					if err != nil {
						return err
					}
					compProps = append(compProps, p)
				}
			} else {
				seq, err := c.app.Properties().Filter(ctx, func(p domain.Property) bool {
					return p.ID != subject.ID && p.Type == subject.Type && p.City != "" && p.City == subject.City
				})
				if err != nil {
					return err
				}
				for p := range seq {
					compProps = append(compProps, p)
				}
			}

			v := analytics.EstimateValue(subject, compProps)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Listed price:    %s\n", common.FormatMoney(subject.Price))
			fmt.Fprintf(w, "Comparables:     %d\n", v.CompCount)
			if v.CompCount > 0 {
				fmt.Fprintf(w, "Comparable mean: %s\n", common.FormatMoney(v.CompMean))
				fmt.Fprintf(w, "Adjustment:      %s %v\n", common.FormatMoney(v.Adjustment), v.Features)
			}
			fmt.Fprintf(w, "Estimated value: %s\n", common.FormatMoney(v.Estimate))
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&comps, "comps", nil, "comma separated ids of comparable properties")
	return cmd
}
