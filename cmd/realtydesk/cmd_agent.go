package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talkincode/realtydesk/internal/domain"
)

func (c *cli) agentCommands() []*cobra.Command {
	return []*cobra.Command{
		c.addAgentCmd(),
		c.updateAgentCmd(),
		c.deleteAgentCmd(),
		c.listAgentsCmd(),
		c.assignAgentCmd(),
	}
}

func (c *cli) addAgentCmd() *cobra.Command {
	var a domain.Agent
	cmd := &cobra.Command{
		Use:     "add-agent",
		Short:   "Add a sales agent",
		Example: `  realtydesk add-agent --first-name Sam --last-name Reed --commission-rate 0.025`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.app.Agents().Add(cmd.Context(), a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added agent %d\n", id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.FirstName, "first-name", "", "first name (required)")
	f.StringVar(&a.LastName, "last-name", "", "last name")
	f.StringVar(&a.Email, "email", "", "email address")
	f.StringVar(&a.Phone, "phone", "", "phone number")
	f.Float64Var(&a.CommissionRate, "commission-rate", 0, "share of the deal amount, 0.025 for 2.5% (default deal.commission_rate)")
	return cmd
}

func (c *cli) updateAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update-agent ID key=value...",
		Short:   "Change fields of an agent",
		Example: `  realtydesk update-agent 1719430 commission_rate=0.03 phone=555-0100`,
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
			a, err := c.app.Agents().Update(cmd.Context(), id, fields)
			if err != nil {
				return err
			}
			return printAgents(cmd.OutOrStdout(), []domain.Agent{a})
		},
	}
}

func (c *cli) deleteAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-agent ID",
		Short: "Remove an agent; its listings are left without one",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Agents().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted agent %d\n", id)
			return nil
		},
	}
}

func (c *cli) listAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-agents",
		Short: "List every agent with commission rate and total sales",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			agents, err := c.app.Agents().List(cmd.Context())
			if err != nil {
				return err
			}
			return printAgents(cmd.OutOrStdout(), agents)
		},
	}
}

func (c *cli) assignAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-agent PROPERTY_ID AGENT_ID",
		Short: "Make an agent the listing agent of a property",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0])
			if err != nil {
				return err
			}
			aid, err := parseID(args[1])
			if err != nil {
				return err
			}
			a, err := c.app.Agents().Assign(cmd.Context(), aid, pid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "property %d listed by %s\n", pid, a.FullName())
			return nil
		},
	}
}
