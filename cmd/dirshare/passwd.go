package main

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Generate a bcrypt password hash",
	Long: `Prompt for a password and print its bcrypt hash, suitable for the
auth.password config key. Hashed passwords keep the plain text out of
config files.`,
	RunE: runPasswd,
}

func init() {
	passwdCmd.Flags().Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")

	rootCmd.AddCommand(passwdCmd)
}

func runPasswd(cmd *cobra.Command, args []string) error {
	cost, _ := cmd.Flags().GetInt("cost")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(s string) error {
			if len(s) < 4 {
				return fmt.Errorf("password must be at least 4 characters")
			}
			return nil
		},
	}
	password, err := prompt.Run()
	if err != nil {
		return err
	}

	confirm := promptui.Prompt{Label: "Confirm password", Mask: '*'}
	again, err := confirm.Run()
	if err != nil {
		return err
	}
	if password != again {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
