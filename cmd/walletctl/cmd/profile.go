package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simaogato/paperwallet-backend/internal/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the user profile",
	Long: `Show the user profile. With --username, --email or --picture the
given fields are updated first.

Examples:
  walletctl profile
  walletctl profile --username satoshi --email satoshi@example.org`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

var (
	profileUsername string
	profileEmail    string
	profilePicture  string
)

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileUsername, "username", "", "new username")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "new email address")
	profileCmd.Flags().StringVar(&profilePicture, "picture", "", "new profile picture URL")
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	p, err := a.Profile.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	if profileUsername != "" || profileEmail != "" || profilePicture != "" {
		update := domain.Profile{
			Username:   p.Username,
			Email:      p.Email,
			PictureURL: profilePicture,
		}
		if profileUsername != "" {
			update.Username = profileUsername
		}
		if profileEmail != "" {
			update.Email = profileEmail
		}

		if p, err = a.Profile.Update(cmd.Context(), update); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Username: %s\n", p.Username)
	fmt.Fprintf(out, "Email:    %s\n", p.Email)
	fmt.Fprintf(out, "Picture:  %s\n", p.PictureURL)
	return nil
}
