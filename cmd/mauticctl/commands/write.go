package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCreateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <endpoint> key=value...",
		Short: "Create an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseKeyValues(args[1:])
			if err != nil {
				return err
			}
			api, err := app.api(args[0])
			if err != nil {
				return err
			}
			resp, err := api.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printResponse(app.Out, resp)
		},
	}
}

func NewEditCommand(app *App) *cobra.Command {
	var createIfNotExists bool

	cmd := &cobra.Command{
		Use:   "edit <endpoint> <id> key=value...",
		Short: "Edit an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			params, err := parseKeyValues(args[2:])
			if err != nil {
				return err
			}
			api, err := app.api(args[0])
			if err != nil {
				return err
			}
			resp, err := api.Edit(cmd.Context(), id, params, createIfNotExists)
			if err != nil {
				return err
			}
			return printResponse(app.Out, resp)
		},
	}

	cmd.Flags().BoolVar(&createIfNotExists, "create-if-not-exists", false, "create the item when the id does not exist (PUT)")

	return cmd
}

func NewDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <endpoint> <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			api, err := app.api(args[0])
			if err != nil {
				return err
			}
			resp, err := api.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(app.Out, resp)
		},
	}
}

func NewSubmitCommand(app *App) *cobra.Command {
	var utmSource string

	cmd := &cobra.Command{
		Use:   "submit <formId> key=value...",
		Short: "Submit data to a public form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formID, err := parseID(args[0])
			if err != nil {
				return err
			}
			data, err := parseKeyValues(args[1:])
			if err != nil {
				return err
			}
			// The submit URL does not depend on an endpoint.
			api, err := app.api("")
			if err != nil {
				return err
			}
			succeeded, err := api.SubmitFormData(cmd.Context(), formID, data, utmSource)
			if err != nil {
				return err
			}
			if !succeeded {
				return fmt.Errorf("form %d rejected the submission", formID)
			}
			fmt.Fprintln(app.Out, "submitted")
			return nil
		},
	}

	cmd.Flags().StringVar(&utmSource, "utm-source", "", "utm_source query parameter")

	return cmd
}
