package main

import (
	"github.com/spf13/cobra"

	"Inventar/internal/catalogue"
)

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Catalogue items",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the catalogue",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s := catalogue.NewStore(a.kv, a.log)
				return printJSON(cmd.OutOrStdout(), s.Load(cmd.Context()))
			},
		},
		newItemAddCmd(a),
		newItemUpdateCmd(a),
	)
	return cmd
}

func itemFlags(cmd *cobra.Command, it *catalogue.Item) {
	f := cmd.Flags()
	f.StringVar(&it.ProductName, "product-name", "", "product name")
	f.StringVar(&it.Manufacturer, "manufacturer", "", "manufacturer")
	f.StringVar(&it.EAN, "ean", "", "EAN")
	f.StringVar(&it.Photo, "photo", "", "photo URL")
}

func newItemAddCmd(a *app) *cobra.Command {
	var (
		it catalogue.Item
		mn string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			it.ModelNumber = catalogue.ModelNumber(mn)
			if err := it.Validate(); err != nil {
				return err
			}

			s := catalogue.NewStore(a.kv, a.log)
			s.Load(cmd.Context())
			items, err := s.Add(cmd.Context(), it)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	itemFlags(cmd, &it)
	cmd.Flags().StringVar(&mn, "model-number", "", "model number")
	return cmd
}

func newItemUpdateCmd(a *app) *cobra.Command {
	var it catalogue.Item

	cmd := &cobra.Command{
		Use:   "update MODEL_NUMBER",
		Short: "Replace the item(s) with this model number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it.ModelNumber = catalogue.ModelNumber(args[0])

			s := catalogue.NewStore(a.kv, a.log)
			s.Load(cmd.Context())
			items, err := s.Update(cmd.Context(), it)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	itemFlags(cmd, &it)
	return cmd
}
