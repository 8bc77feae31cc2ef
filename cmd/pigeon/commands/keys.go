package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pigeon/internal/domain"
)

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage your key pair",
	}
	cmd.AddCommand(keysInitCmd(), keysUnlockCmd(), keysPasswdCmd())
	return cmd
}

func keysInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a key pair and store it wrapped on the relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appCtx.Session(); err != nil {
				return err
			}
			pass, err := termPrompter{}.NewPassphrase(cmd.Context())
			if err != nil {
				return err
			}
			fp, err := appCtx.Identity.Setup(cmd.Context(), pass)
			if err != nil {
				return err
			}
			fmt.Printf("Key pair created.\nFingerprint: %s\n", fp)
			return nil
		},
	}
}

func keysUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check that your passphrase unlocks the key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				return err
			}
			fmt.Println("Unlocked.")
			return nil
		},
	}
}

func keysPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the passphrase protecting your private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appCtx.Session(); err != nil {
				return err
			}
			old, err := readSecret("Current passphrase: ")
			if err != nil {
				return err
			}
			next, err := readSecret("New passphrase: ")
			if err != nil {
				return err
			}
			confirm, err := readSecret("Confirm new passphrase: ")
			if err != nil {
				return err
			}
			if next != confirm {
				return fmt.Errorf("passphrases do not match")
			}
			if err := appCtx.Identity.ChangePassphrase(cmd.Context(), old, next); err != nil {
				return err
			}
			fmt.Println("Passphrase changed.")
			return nil
		},
	}
}

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint [email]",
		Short: "Print your key fingerprint, or a contact's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appCtx.Session(); err != nil {
				return err
			}
			if len(args) == 0 {
				fp, err := appCtx.Identity.Fingerprint(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Fingerprint: %s\n", fp)
				return nil
			}
			c, err := appCtx.Conversations.Lookup(cmd.Context(), domain.Email(args[0]))
			if err != nil {
				return err
			}
			fp, err := contactFingerprint(c)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", c.Email, fp)
			return nil
		},
	}
}
