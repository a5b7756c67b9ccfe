package cli

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ka2n/cloudapp/api"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	createName    string
	createPrivacy privacyFlag
	bookmarkTitle bool

	bookmarkCmd = &cobra.Command{
		Use:   "bookmark <url>",
		Short: "Create a bookmark drop",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookmark,
	}

	uploadCmd = &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file drop",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{bookmarkCmd, uploadCmd} {
		cmd.Flags().StringVarP(&createName, "name", "n", "", "Name of the drop")
		cmd.Flags().Var(&createPrivacy, "privacy", "Drop privacy (default is the account setting)")
	}
	bookmarkCmd.Flags().BoolVar(&bookmarkTitle, "title", false, "Name the bookmark after the page title when --name is not given")
	rootCmd.AddCommand(bookmarkCmd, uploadCmd)
}

func createOptions() api.DropOptions {
	opts := api.DropOptions{Private: createPrivacy.ptr()}
	if createName != "" {
		opts.Name = lo.ToPtr(createName)
	}
	return opts
}

func runBookmark(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}

	opts := createOptions()
	if opts.Name == nil && bookmarkTitle {
		title, err := pageTitle(cmd.Context(), http.DefaultClient, args[0])
		if err != nil {
			log.Warn("Could not read the page title", "url", args[0], "error", err)
		} else {
			opts.Name = lo.ToPtr(title)
		}
	}

	res, err := s.Bookmark(cmd.Context(), args[0], opts)
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

func runUpload(cmd *cobra.Command, args []string) error {
	s, err := newService()
	if err != nil {
		return err
	}
	file, err := openFile(uploadFs, args[0])
	if err != nil {
		return err
	}

	res, err := s.Upload(cmd.Context(), file, createOptions())
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

// uploadFs is the filesystem uploaded files are read from
var uploadFs = afero.NewOsFs()

// openFile opens path for upload. The caller hands the file to the service,
// which closes it.
func openFile(fsys afero.Fs, path string) (api.File, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return api.File{}, failure.Translate(err, FileUnreadable,
			failure.Message("Cannot read the file"),
			failure.Context{"path": path},
		)
	}
	if info.IsDir() {
		return api.File{}, failure.New(FileUnreadable,
			failure.Message("Cannot upload a directory"),
			failure.Context{"path": path},
		)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return api.File{}, failure.Translate(err, FileUnreadable,
			failure.Message("Cannot read the file"),
			failure.Context{"path": path},
		)
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectReader(f); err == nil {
		contentType = mtype.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return api.File{}, failure.Translate(err, FileUnreadable,
			failure.Message("Cannot read the file"),
			failure.Context{"path": path},
		)
	}

	return api.File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Body:        f,
	}, nil
}
