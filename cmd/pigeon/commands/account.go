package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pigeon/internal/domain"
)

func signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account on the relay and a key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := password(true)
			if err != nil {
				return err
			}
			sess, err := appCtx.SignUp(cmd.Context(), domain.Email(args[0]), pw)
			if err != nil {
				return err
			}
			fmt.Printf("Signed up as %s\n", sess.Email)
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				return err
			}
			fp, err := appCtx.Identity.Fingerprint(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Key pair created.\nFingerprint: %s\n", fp)
			return nil
		},
	}
}

func signinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signin <email>",
		Short: "Sign in and unlock your key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := password(false)
			if err != nil {
				return err
			}
			sess, err := appCtx.SignIn(cmd.Context(), domain.Email(args[0]), pw)
			if err != nil {
				return err
			}
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				// Do not leave a session behind without usable keys.
				_ = appCtx.SignOut(cmd.Context())
				return err
			}
			fmt.Printf("Signed in as %s (session until %s)\n", sess.Email, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the session and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appCtx.Session(); err != nil {
				return err
			}
			u, err := appCtx.Relay.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s) on %s\n", u.Email, u.ID, appCtx.Config.RelayURL)
			if fp, err := appCtx.Identity.Fingerprint(cmd.Context()); err == nil {
				fmt.Printf("Fingerprint: %s\n", fp)
			}
			return nil
		},
	}
}
