package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ka2n/cloudapp/api"
	"github.com/ka2n/cloudapp/credential"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

var (
	loginEmail    string
	loginPassword string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Exchange account credentials for a token and store it",
		Long: `Exchange the account email and password for an API token and store the
token for later commands. Credentials default to CLOUDAPP_EMAIL and
CLOUDAPP_PASSWORD; missing ones are read from standard input.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	email, _ := lo.Coalesce(loginEmail, cfg.Email)
	password, _ := lo.Coalesce(loginPassword, cfg.Password)

	in := bufio.NewReader(cmd.InOrStdin())
	if email == "" {
		if email, err = prompt(cmd, in, "Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptPassword(cmd, in, "Password: "); err != nil {
			return err
		}
	}

	s, err := api.New(api.Config{BaseURL: cfg.BaseURL})
	if err != nil {
		return err
	}
	res, err := s.TokenForAccount(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if res.Unauthorized() {
		return failure.New(Unauthorized, failure.Message("Wrong email or password"))
	}

	if err := credential.Default().Save(credential.Entry{
		BaseURL: cfg.BaseURL,
		Email:   email,
		Token:   res.Value(),
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	if err := credential.Default().Delete(cfg.BaseURL); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	// a final line without a newline is still an answer
	line, _ := in.ReadString('\n')
	if line = strings.TrimSpace(line); line == "" {
		return "", invalidArguments(strings.TrimSuffix(label, ": ") + " is required")
	}
	return line, nil
}

// promptPassword reads the password without echo when standard input is a
// terminal.
func promptPassword(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return prompt(cmd, in, label)
	}

	fmt.Fprint(cmd.ErrOrStderr(), label)
	b, err := readPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", failure.Translate(err, InvalidArguments, failure.Message("Cannot read the password"))
	}
	password := strings.TrimSpace(string(b))
	if password == "" {
		return "", invalidArguments(strings.TrimSuffix(label, ": ") + " is required")
	}
	return password, nil
}
