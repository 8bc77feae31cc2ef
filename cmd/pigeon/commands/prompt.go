package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"pigeon/internal/crypto"
)

const (
	passphraseEnv = "PIGEON_PASSPHRASE"
	passwordEnv   = "PIGEON_PASSWORD"
)

var errNoTerminal = errors.New("no terminal available")

// termPrompter reads passphrases from the terminal, or once from
// PIGEON_PASSPHRASE.
type termPrompter struct{}

func (termPrompter) NewPassphrase(context.Context) (string, error) {
	if v := os.Getenv(passphraseEnv); v != "" {
		return v, nil
	}
	fmt.Fprintln(os.Stderr, "No key pair yet. Choose a passphrase to protect it.")
	p, err := readSecret("New passphrase: ")
	if err != nil {
		return "", err
	}
	confirm, err := readSecret("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if p != confirm {
		return "", errors.New("passphrases do not match")
	}
	return p, nil
}

func (termPrompter) Passphrase(_ context.Context, attempt int) (string, error) {
	if v := os.Getenv(passphraseEnv); v != "" {
		if attempt > 1 {
			return "", fmt.Errorf("%s is wrong", passphraseEnv)
		}
		return v, nil
	}
	if attempt > 1 {
		fmt.Fprintln(os.Stderr, "Wrong passphrase, try again.")
	}
	return readSecret("Passphrase: ")
}

// password returns the relay account password.
func password(confirm bool) (string, error) {
	if v := os.Getenv(passwordEnv); v != "" {
		return v, nil
	}
	p, err := readSecret("Password: ")
	if err != nil || !confirm {
		return p, err
	}
	again, err := readSecret("Confirm password: ")
	if err != nil {
		return "", err
	}
	if p != again {
		return "", errors.New("passwords do not match")
	}
	return p, nil
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return "", fmt.Errorf("%w; set %s", errNoTerminal, passphraseEnv)
		}
		defer tty.Close()
		fd = int(tty.Fd())
	}
	b, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(b)
	return string(b), nil
}

// readLine reads one line from stdin, for message text piped in.
func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
