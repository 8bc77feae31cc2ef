package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pigeon/internal/domain"
)

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <email> [message...]",
		Short: "Encrypt and send a message; reads stdin when no message is given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if text == "" {
				var err error
				if text, err = readLine(); err != nil {
					return err
				}
			}
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				return err
			}
			c, err := peerFor(cmd.Context(), domain.Email(args[0]))
			if err != nil {
				return err
			}
			if _, err := appCtx.Messages.Send(cmd.Context(), c.UserID, text); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <email>",
		Short: "Fetch and decrypt the conversation with a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				return err
			}
			c, err := peerFor(cmd.Context(), domain.Email(args[0]))
			if err != nil {
				return err
			}
			msgs, err := appCtx.Messages.History(cmd.Context(), c.UserID)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printMessage(c, m)
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <email>",
		Short: "Print new messages from a contact as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Unlock(cmd.Context(), termPrompter{}); err != nil {
				return err
			}
			c, err := peerFor(cmd.Context(), domain.Email(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("Watching %s, Ctrl-C to stop.\n", c.Email)
			err = appCtx.Messages.Watch(cmd.Context(), c.UserID, func(m domain.DecryptedMessage) {
				printMessage(c, m)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func printMessage(peer domain.Contact, m domain.DecryptedMessage) {
	from := "me"
	if m.Sender == peer.UserID {
		from = peer.Email.String()
	}
	fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), from, m.Text)
}
