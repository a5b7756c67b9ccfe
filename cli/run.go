package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ka2n/cloudapp/api"
	"github.com/ka2n/cloudapp/credential"
	"github.com/ka2n/cloudapp/log"
	"github.com/ka2n/cloudapp/mcp"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURLFlag string
	tokenFlag   string
	debugFlag   bool

	// Root command
	rootCmd = &cobra.Command{
		Use:   "cloudapp",
		Short: "Manage CloudApp drops",
		Long: `cloudapp lists, creates and manages drops: bookmarks and files shared
through CloudApp.

Credentials are read from --token, CLOUDAPP_TOKEN, CLOUDAPP_EMAIL and
CLOUDAPP_PASSWORD, or the token stored by "cloudapp login". Variables may
also be set in .env or .env.local in the working directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotenv()
			if debugFlag || os.Getenv("CLOUDAPP_DEBUG") != "" {
				log.EnableDebug()
			}
		},
	}

	// Version information
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about cloudapp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cloudapp version %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", Date)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API root (default $CLOUDAPP_BASE_URL or "+api.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API token (default $CLOUDAPP_TOKEN or the stored login)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log HTTP traffic to stderr")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcp.Command(newService))
}

// Run executes the main CLI functionality
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func currentConfig() (Config, error) {
	return loadConfig(os.LookupEnv, Config{
		BaseURL: baseURLFlag,
		Token:   tokenFlag,
		Debug:   debugFlag,
	})
}

// newService builds the drop service from the current configuration.
func newService() (*api.Service, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Auth:    cfg.auth(credential.Default()),
	})
}

func unauthorized() error {
	return failure.New(Unauthorized,
		failure.Message("The server rejected the credentials, run `cloudapp login` or set CLOUDAPP_TOKEN"),
	)
}

// firstDrop returns the drop of a successful single-drop result.
func firstDrop(res api.Result[*api.DropCollection], href string) (api.Drop, error) {
	if res.Unauthorized() {
		return api.Drop{}, unauthorized()
	}
	drop, ok := res.Value().First()
	if !ok {
		return api.Drop{}, failure.New(NoDrop,
			failure.Message("No drop found"),
			failure.Context{"href": href},
		)
	}
	return drop, nil
}

func invalidArguments(msg string) error {
	return failure.New(InvalidArguments, failure.Message(msg))
}
