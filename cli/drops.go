package cli

import (
	"context"
	"fmt"

	"github.com/ka2n/cloudapp/api"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	listFilter filterFlag
	listHref   string

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List drops",
		Long: `List the newest drops. Use --href with a "next" or "previous" link
printed at the end of the list to page.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	showCmd = &cobra.Command{
		Use:   "show <href>...",
		Short: "Show drop details",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runShow,
	}

	openCmd = &cobra.Command{
		Use:   "open <href>",
		Short: "Open a drop's share link in the browser",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpen,
	}
)

func init() {
	listCmd.Flags().Var(&listFilter, "filter", "Which drops to list")
	listCmd.Flags().StringVar(&listHref, "href", "", "Start from this link instead of the API root")
	rootCmd.AddCommand(listCmd, showCmd, openCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}
	res, err := s.Drops(cmd.Context(), api.DropsOptions{Href: listHref, Filter: listFilter.Value})
	if err != nil {
		return err
	}
	if res.Unauthorized() {
		return unauthorized()
	}

	p := newPresenter(cmd.OutOrStdout())
	p.print(p.List(res.Value().Drops()))
	for _, rel := range []string{"previous", "next"} {
		if href, ok := res.Value().Link(rel); ok {
			p.print(fmt.Sprintf("%s: %s", rel, href))
		}
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}
	drops, err := fanOut(cmd.Context(), args, func(ctx context.Context, href string) (api.Drop, error) {
		res, err := s.DropAt(ctx, href)
		if err != nil {
			return api.Drop{}, err
		}
		return firstDrop(res, href)
	})
	if err != nil {
		return err
	}

	p := newPresenter(cmd.OutOrStdout())
	for i, d := range drops {
		if i > 0 {
			p.print("")
		}
		p.print(p.Drop(d))
	}
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}
	res, err := s.DropAt(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	drop, err := firstDrop(res, args[0])
	if err != nil {
		return err
	}
	if drop.ShareURL == "" {
		return failure.New(NoShareURL,
			failure.Message("The drop has no share link"),
			failure.Context{"href": drop.Href},
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opening %s\n", drop.ShareURL)
	return browser.OpenURL(drop.ShareURL)
}
