package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	renderParams []string
	renderLang   string
)

var renderCmd = &cobra.Command{
	Use:   "render <client>",
	Short: "Render one client page to stdout",
	Long: `Render a client page without starting the server.

Clients:
  basket/standard
  checkout/standard/address
  catalog/stock

Parameters are passed as name=value pairs, for example:
  storefront render catalog/stock -p 's_prodcode[]=MUG' -p 's_prodcode[]=TEE'`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVarP(&renderParams, "param", "p", nil, "request parameter as name=value, repeatable")
	renderCmd.Flags().StringVar(&renderLang, "lang", "", "language id, defaults to storefront/locale")
}

func runRender(cmd *cobra.Command, args []string) error {
	form, err := parseParams(renderParams)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.component.Render(cmd.Context(), args[0], form, "", renderLang)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), page)
	return err
}

func parseParams(raw []string) (url.Values, error) {
	form := url.Values{}
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", item)
		}
		form.Add(name, value)
	}
	return form, nil
}
