package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aislescan/aislescan/internal/client/api"
)

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

func init() {
	signupCmd.Flags().String("name", "", "display name for the new account")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	email := args[0]
	name, _ := cmd.Flags().GetString("name")

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := appl.Client.Signup(cmd.Context(), email, password, name)
	if err != nil {
		return err
	}
	if err := appl.Profiles.SetAuthenticated(cmd.Context(), true); err != nil {
		appl.Log.Warn().Err(err).Msg("loading profile after signup")
	}

	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("Account created. Logged in as %s\n", user.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := appl.Client.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	if err := appl.Profiles.SetAuthenticated(cmd.Context(), true); err != nil {
		appl.Log.Warn().Err(err).Msg("loading profile after login")
	}

	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("Logged in as %s\n", user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	if err := appl.Client.Logout(cmd.Context()); err != nil {
		return err
	}
	if err := appl.Profiles.SetAuthenticated(cmd.Context(), false); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}

// sessionAPI is the slice of the API client whoami needs.
type sessionAPI interface {
	VerifyToken(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*api.UserSummary, error)
}

// currentSession resolves the stored user and confirms the token is still
// accepted by the backend. A stale token reads as an expired session, not a
// missing one.
func currentSession(ctx context.Context, c sessionAPI) (*api.UserSummary, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, api.NewError(api.KindUnauthenticated, "not logged in")
	}
	if !c.VerifyToken(ctx) {
		return nil, api.NewError(api.KindUnauthorized, "session rejected by the backend")
	}
	return user, nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	user, err := currentSession(cmd.Context(), appl.Client)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(user)
	}
	if user.Name != "" {
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
	} else {
		fmt.Println(user.Email)
	}
	return nil
}
