package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
)

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contacts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest pre-run; chain to root.
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			_, err := appCtx.Session()
			return err
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <email>",
			Short: "Look up a user and save them as a contact",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := appCtx.Conversations.Add(cmd.Context(), domain.Email(args[0]))
				if err != nil {
					return err
				}
				return printContact(c)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved contacts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := appCtx.Conversations.Contacts()
				if err != nil {
					return err
				}
				return printContacts(list)
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Add a contact for every conversation on the relay",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := appCtx.Conversations.Sync(cmd.Context())
				if err != nil {
					return err
				}
				return printContacts(list)
			},
		},
		&cobra.Command{
			Use:   "remove <email>",
			Short: "Forget a contact",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := findContact(domain.Email(args[0]))
				if err != nil {
					return err
				}
				return appCtx.Conversations.Remove(c.UserID)
			},
		},
	)
	return cmd
}

func printContacts(list []domain.Contact) error {
	if len(list) == 0 {
		fmt.Println("No contacts.")
		return nil
	}
	for _, c := range list {
		if err := printContact(c); err != nil {
			return err
		}
	}
	return nil
}

func printContact(c domain.Contact) error {
	fp, err := contactFingerprint(c)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\n", c.Email, fp)
	return nil
}

func contactFingerprint(c domain.Contact) (string, error) {
	pub, err := crypto.DecodePublicKey(c.PublicKey)
	if err != nil {
		return "", err
	}
	return pub.Fingerprint(), nil
}

func findContact(email domain.Email) (domain.Contact, error) {
	list, err := appCtx.Conversations.Contacts()
	if err != nil {
		return domain.Contact{}, err
	}
	for _, c := range list {
		if strings.EqualFold(c.Email.String(), email.String()) {
			return c, nil
		}
	}
	return domain.Contact{}, fmt.Errorf("%s is not a contact", email)
}

// peerFor returns the contact for email, adding it first if needed.
func peerFor(ctx context.Context, email domain.Email) (domain.Contact, error) {
	if c, err := findContact(email); err == nil {
		return c, nil
	}
	return appCtx.Conversations.Add(ctx, email)
}
