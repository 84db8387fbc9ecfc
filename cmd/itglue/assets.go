package main

import (
	"github.com/spf13/cobra"
)

var (
	assetTypeID string
	assetOrgID  string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Work with flexible assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List flexible assets of one type",
	Long: `List flexible assets. The API requires a flexible asset type filter on
this endpoint, so --type-id is mandatory.

Examples:
  itglue assets list --type-id 9
  itglue assets list --type-id 9 --org-id 42`,
	RunE: runAssetsList,
}

var assetsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get one flexible asset by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsGet,
}

var assetTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List flexible asset types",
	RunE:  runAssetTypes,
}

func init() {
	assetsListCmd.Flags().StringVar(&assetTypeID, "type-id", "", "flexible asset type id (required)")
	assetsListCmd.Flags().StringVar(&assetOrgID, "org-id", "", "organization id to scope the listing")
	assetsListCmd.MarkFlagRequired("type-id")

	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsGetCmd)
	assetsCmd.AddCommand(assetTypesCmd)
}

func runAssetsList(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	assets, err := services.FlexibleAssets.List(cmd.Context(), assetTypeID, assetOrgID)
	if err != nil {
		return err
	}
	return printJSON(assets)
}

func runAssetsGet(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	asset, err := services.FlexibleAssets.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(asset)
}

func runAssetTypes(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}

	services, err := newServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	types, err := services.FlexibleAssetTypes.List(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(types)
}
