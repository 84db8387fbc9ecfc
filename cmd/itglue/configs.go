package main

import (
	"github.com/spf13/cobra"
)

var (
	configOrgID       string
	configNamePattern string
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Work with configurations",
}

var configsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configurations",
	Long: `List configurations, optionally scoped to one organization and narrowed
by a name pattern.

The organization scope is applied server side as a filter; the name pattern
is matched client side after the full result set is retrieved.

Examples:
  itglue configs list
  itglue configs list --org-id 42
  itglue configs list --org-id 42 --name 'fw-'`,
	RunE: runConfigsList,
}

var configsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get one configuration by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigsGet,
}

func init() {
	configsListCmd.Flags().StringVar(&configOrgID, "org-id", "", "organization id to scope the listing")
	configsListCmd.Flags().StringVar(&configNamePattern, "name", "", "name pattern (regex or substring)")
	configsCmd.AddCommand(configsListCmd)
	configsCmd.AddCommand(configsGetCmd)
}

func runConfigsList(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if configNamePattern != "" {
		configs, err := services.Configurations.FindByName(cmd.Context(), configOrgID, configNamePattern)
		if err != nil {
			return err
		}
		return printJSON(configs)
	}

	configs, err := services.Configurations.List(cmd.Context(), configOrgID)
	if err != nil {
		return err
	}
	return printJSON(configs)
}

func runConfigsGet(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	config, err := services.Configurations.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(config)
}
