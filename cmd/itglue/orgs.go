package main

import (
	"github.com/spf13/cobra"
)

var orgNamePattern string

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Work with organizations",
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	Long: `List every organization, optionally narrowed by a name pattern.

The pattern is matched client side: the full collection is always
retrieved, then filtered. Patterns are regular expressions; a pattern that
does not compile is matched as a plain substring.

Examples:
  itglue orgs list
  itglue orgs list --name '^Acme'`,
	RunE: runOrgsList,
}

var orgsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get one organization by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgsGet,
}

func init() {
	orgsListCmd.Flags().StringVar(&orgNamePattern, "name", "", "name pattern (regex or substring)")
	orgsCmd.AddCommand(orgsListCmd)
	orgsCmd.AddCommand(orgsGetCmd)
}

func runOrgsList(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if orgNamePattern != "" {
		orgs, err := services.Organizations.FindByName(cmd.Context(), orgNamePattern)
		if err != nil {
			return err
		}
		return printJSON(orgs)
	}

	orgs, err := services.Organizations.List(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(orgs)
}

func runOrgsGet(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	org, err := services.Organizations.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(org)
}
