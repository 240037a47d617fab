package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const minPasswordLength = 8

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Prompt for the admin password and print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cost == 0 {
				cost = config.Load().BcryptCost
			}

			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("hash-password must be run from an interactive terminal")
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Enter Password: ")
			first, err := term.ReadPassword(fd)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if len(first) < minPasswordLength {
				return fmt.Errorf("password must be at least %d characters", minPasswordLength)
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Confirm Password: ")
			second, err := term.ReadPassword(fd)
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if string(first) != string(second) {
				return errors.New("passwords do not match")
			}

			hash, err := bcrypt.GenerateFromPassword(first, cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			cmd.Println(string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default BCRYPT_COST)")
	return cmd
}
