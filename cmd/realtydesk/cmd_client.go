package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/domain"
)

func (c *cli) clientCommands() []*cobra.Command {
	return []*cobra.Command{
		c.addClientCmd(),
		c.updateClientCmd(),
		c.deleteClientCmd(),
		c.listClientsCmd(),
		c.searchClientsCmd(),
	}
}

func (c *cli) addClientCmd() *cobra.Command {
	var (
		cl       domain.Client
		ctype    string
		prefType string
	)
	cmd := &cobra.Command{
		Use:   "add-client",
		Short: "Add a client",
		Example: `  realtydesk add-client --first-name Ada --last-name Lovelace --email ada@example.com \
    --type buyer --budget-max 500000 --pref-type house --pref-beds 3 --pref-city Austin`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl.Type = domain.ClientType(ctype)
			cl.Preferences.PropertyType = domain.PropertyType(prefType)
			id, err := c.app.Clients().Add(cmd.Context(), cl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added client %d\n", id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cl.FirstName, "first-name", "", "first name (required)")
	f.StringVar(&cl.LastName, "last-name", "", "last name")
	f.StringVar(&cl.Email, "email", "", "email address")
	f.StringVar(&cl.Phone, "phone", "", "phone number")
	f.StringVar(&ctype, "type", "", "buyer (default), seller, tenant or landlord")
	f.Float64Var(&cl.BudgetMin, "budget-min", 0, "lower budget bound")
	f.Float64Var(&cl.BudgetMax, "budget-max", 0, "upper budget bound (0 for none)")
	f.StringVar(&prefType, "pref-type", "", "preferred property type")
	f.IntVar(&cl.Preferences.MinBedrooms, "pref-beds", 0, "minimum bedrooms wanted")
	f.IntVar(&cl.Preferences.MinBathrooms, "pref-baths", 0, "minimum bathrooms wanted")
	f.StringVar(&cl.Preferences.City, "pref-city", "", "preferred city")
	f.Float64Var(&cl.Preferences.MaxPrice, "pref-max-price", 0, "maximum price wanted")
	f.Float64Var(&cl.Preferences.MinArea, "pref-min-area", 0, "minimum area wanted")
	f.Int64SliceVar(&cl.InterestedProperties, "interested", nil, "ids of properties the client asked about")
	f.StringVar(&cl.Notes, "notes", "", "free text notes")
	return cmd
}

func (c *cli) updateClientCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update-client ID key=value...",
		Short:   "Change fields of a client",
		Example: `  realtydesk update-client 1719428 budget_max=550000 preferences.city=Dallas`,
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
			cl, err := c.app.Clients().Update(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			_, err = printClients(cmd.OutOrStdout(), slices.Values([]domain.Client{cl}))
			return err
		},
	}
}

func (c *cli) deleteClientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-client ID",
		Short: "Remove a client",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Clients().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted client %d\n", id)
			return nil
		},
	}
}

func (c *cli) listClientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-clients",
		Short: "List every client in insertion order",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, err := c.app.Clients().List(cmd.Context())
			if err != nil {
				return err
			}
			_, err = printClients(cmd.OutOrStdout(), slices.Values(clients))
			return err
		},
	}
}

func (c *cli) searchClientsCmd() *cobra.Command {
	var (
		q     domain.ClientQuery
		ctype string
	)
	cmd := &cobra.Command{
		Use:   "search-clients",
		Short: "Find clients by name, type or preferred city",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Type = domain.ClientType(ctype)
			seq, err := c.app.Clients().Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			n, err := printClients(cmd.OutOrStdout(), seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d clients found\n", n)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.Name, "name", "", "name substring, case-insensitive")
	f.StringVar(&ctype, "type", "", "client type")
	f.StringVar(&q.City, "city", "", "preferred city substring")
	return cmd
}
