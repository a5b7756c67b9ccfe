package cli

import (
	"context"
	"fmt"

	"github.com/ka2n/cloudapp/api"
	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	updateName    string
	updateURL     string
	updateFile    string
	updatePrivacy privacyFlag

	updateCmd = &cobra.Command{
		Use:   "update <href>",
		Short: "Change a drop",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}

	trashIDs   []string
	recoverIDs []string

	trashCmd = &cobra.Command{
		Use:   "trash [href...]",
		Short: "Move drops to the trash",
		Long: `Move drops to the trash. Drops are named by href, or by id with --id
to trash them in a single request.`,
		RunE: runTrash,
	}

	recoverCmd = &cobra.Command{
		Use:   "recover [href...]",
		Short: "Restore drops from the trash",
		RunE:  runRecover,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <href>...",
		Short: "Permanently delete drops",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDelete,
	}
)

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "New name")
	updateCmd.Flags().StringVar(&updateURL, "url", "", "New bookmark URL")
	updateCmd.Flags().StringVar(&updateFile, "file", "", "Replace the content with this file")
	updateCmd.Flags().Var(&updatePrivacy, "privacy", "New privacy")
	trashCmd.Flags().StringSliceVar(&trashIDs, "id", nil, "Drop ids to trash")
	recoverCmd.Flags().StringSliceVar(&recoverIDs, "id", nil, "Drop ids to recover")
	rootCmd.AddCommand(updateCmd, trashCmd, recoverCmd, deleteCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}

	opts := api.UpdateOptions{Private: updatePrivacy.ptr()}
	if cmd.Flags().Changed("name") {
		opts.Name = lo.ToPtr(updateName)
	}
	if cmd.Flags().Changed("url") {
		opts.BookmarkURL = lo.ToPtr(updateURL)
	}
	if updateFile != "" {
		file, err := openFile(uploadFs, updateFile)
		if err != nil {
			return err
		}
		opts.File = &file
	}

	res, err := s.Update(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	drop, err := firstDrop(res, args[0])
	if err != nil {
		return err
	}
	p := newPresenter(cmd.OutOrStdout())
	p.print(p.Drop(drop))
	return nil
}

func runTrash(cmd *cobra.Command, args []string) error {
	return runLifecycle(cmd, args, trashIDs, (*api.Service).TrashDrop, (*api.Service).Trash, "Trashed")
}

func runRecover(cmd *cobra.Command, args []string) error {
	return runLifecycle(cmd, args, recoverIDs, (*api.Service).RecoverDrop, (*api.Service).Recover, "Recovered")
}

type (
	dropOperation func(*api.Service, context.Context, string) (api.Result[*api.DropCollection], error)
	bulkOperation func(*api.Service, context.Context, []string) (api.Result[*collectionjson.Representation], error)
)

func runLifecycle(cmd *cobra.Command, hrefs, ids []string, one dropOperation, bulk bulkOperation, verb string) error {
	if len(hrefs) == 0 && len(ids) == 0 {
		return invalidArguments("Name at least one drop by href or --id")
	}
	s, err := newService()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(ids) > 0 {
		res, err := bulk(s, cmd.Context(), ids)
		if err != nil {
			return err
		}
		if res.Unauthorized() {
			return unauthorized()
		}
		fmt.Fprintf(out, "%s %d drops\n", verb, len(ids))
	}

	drops, err := fanOut(cmd.Context(), hrefs, func(ctx context.Context, href string) (api.Drop, error) {
		res, err := one(s, ctx, href)
		if err != nil {
			return api.Drop{}, err
		}
		return firstDrop(res, href)
	})
	if err != nil {
		return err
	}
	for _, d := range drops {
		fmt.Fprintf(out, "%s %s\n", verb, lo.Ternary(d.Name != "", d.Name, d.Href))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}
	_, err = fanOut(cmd.Context(), args, func(ctx context.Context, href string) (struct{}, error) {
		res, err := s.DeleteDrop(ctx, href)
		if err != nil {
			return struct{}{}, err
		}
		if res.Unauthorized() {
			return struct{}{}, unauthorized()
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}
	for _, href := range args {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", href)
	}
	return nil
}
