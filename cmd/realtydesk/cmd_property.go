package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/domain"
)

func (c *cli) propertyCommands() []*cobra.Command {
	return []*cobra.Command{
		c.addPropertyCmd(),
		c.updatePropertyCmd(),
		c.deletePropertyCmd(),
		c.listPropertiesCmd(),
		c.searchCmd(),
		c.setStatusCmd(),
		c.resetStatusCmd(),
	}
}

func (c *cli) addPropertyCmd() *cobra.Command {
	var (
		p           domain.Property
		ptype       string
		status      string
		listingDate string
		agent       string
	)
	cmd := &cobra.Command{
		Use:   "add-property",
		Short: "Add a property listing",
		Example: `  realtydesk add-property --address "12 Oak Ave" --city Austin --type house \
    --price 450000 --bedrooms 3 --bathrooms 2 --area 1850 --features Garage,Pool`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Type = domain.PropertyType(ptype)
			p.Status = domain.PropertyStatus(status)
			if listingDate != "" {
				t, err := dateparse.ParseIn(listingDate, time.Local)
				if err != nil {
					return domain.NewValidationError("listing_date", "%v", err)
				}
				p.ListingDate = t
			}
			var agentID int64
			if agent != "" {
				var err error
				if agentID, err = parseID(agent); err != nil {
					return err
				}
				if _, err := c.app.Agents().Get(cmd.Context(), agentID); err != nil {
					return err
				}
			}
			id, err := c.app.Properties().Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			if agentID != 0 {
				if _, err := c.app.Agents().Assign(cmd.Context(), agentID, id); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added property %d\n", id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Address, "address", "", "street address (required)")
	f.StringVar(&p.City, "city", "", "city")
	f.StringVar(&p.State, "state", "", "state")
	f.StringVar(&p.ZipCode, "zip", "", "zip code")
	f.StringVar(&ptype, "type", "", "house, apartment, condo, townhouse, land or commercial (required)")
	f.StringVar(&status, "status", "", "available (default), pending or sold")
	f.Float64Var(&p.Price, "price", 0, "listing price")
	f.IntVar(&p.Bedrooms, "bedrooms", 0, "number of bedrooms")
	f.IntVar(&p.Bathrooms, "bathrooms", 0, "number of bathrooms")
	f.Float64Var(&p.Area, "area", 0, "floor area in square feet (required)")
	f.IntVar(&p.YearBuilt, "year-built", 0, "construction year")
	f.StringVar(&p.Description, "description", "", "free text description")
	f.StringSliceVar(&p.Features, "features", nil, "comma separated features")
	f.StringVar(&listingDate, "listing-date", "", "listing date (default today)")
	f.StringVar(&agent, "agent", "", "listing agent id")
	return cmd
}

func (c *cli) updatePropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-property ID key=value...",
		Short: "Change fields of a property",
		Example: `  realtydesk update-property 1719427 price=435000 features=Garage,Pool,Renovated`,
		Args:    minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			p, err := c.app.Properties().Update(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			printProperty(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (c *cli) deletePropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-property ID",
		Short: "Remove a property",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Properties().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted property %d\n", id)
			return nil
		},
	}
}

func (c *cli) listPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list-properties",
		Aliases: []string{"ls"},
		Short:   "List every property in insertion order",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := c.app.Properties().List(cmd.Context())
			if err != nil {
				return err
			}
			_, err = printProperties(cmd.OutOrStdout(), slices.Values(props))
			return err
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	var (
		q      domain.PropertyQuery
		ptype  string
		status string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find properties matching every given criterion",
		Example: `  realtydesk search --type house --city austin --max-price 500000 --min-beds 3`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Type = domain.PropertyType(ptype)
			q.Status = domain.PropertyStatus(status)
			seq, err := c.app.Properties().Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			n, err := printProperties(cmd.OutOrStdout(), seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d properties found\n", n)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&ptype, "type", "", "property type")
	f.StringVar(&status, "status", "", "listing status")
	f.StringVar(&q.City, "city", "", "city substring, case-insensitive")
	f.Float64Var(&q.MinPrice, "min-price", 0, "minimum price")
	f.Float64Var(&q.MaxPrice, "max-price", 0, "maximum price (0 for no limit)")
	f.IntVar(&q.MinBedrooms, "min-beds", 0, "minimum bedrooms")
	f.IntVar(&q.MinBathrooms, "min-baths", 0, "minimum bathrooms")
	f.Float64Var(&q.MinArea, "min-area", 0, "minimum area")
	f.StringVar(&q.Feature, "feature", "", "required feature")
	return cmd
}

func (c *cli) setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Move a property along available -> pending -> sold",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParsePropertyStatus(args[1])
			if err != nil {
				return err
			}
			p, err := c.app.Properties().SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "property %d is %s\n", p.ID, p.Status)
			return nil
		},
	}
}

func (c *cli) resetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-status ID",
		Short: "Put a property back on the market",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := c.app.Properties().Reset(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "property %d is %s\n", p.ID, p.Status)
			return nil
		},
	}
}
