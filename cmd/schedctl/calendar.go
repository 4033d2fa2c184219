package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"scheduling-assistant/config"
	"scheduling-assistant/pkg/gcalendar"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Google Calendar mirroring",
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize installed-app credentials and save the token",
	Long: `Prints the consent URL for the credentials file, reads the authorization code
from stdin and writes the token to google_calendar.token_path.`,
	RunE: runCalendarAuth,
}

var (
	authCredentials string
	authToken       string
)

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarAuthCmd)

	calendarAuthCmd.Flags().StringVar(&authCredentials, "credentials", "", "OAuth client file (default: google_calendar.credentials_path)")
	calendarAuthCmd.Flags().StringVar(&authToken, "token", "", "Token output (default: google_calendar.token_path)")
}

func runCalendarAuth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	credPath := firstNonEmpty(authCredentials, cfg.GoogleCalendar.CredentialsPath)
	tokenPath := firstNonEmpty(authToken, cfg.GoogleCalendar.TokenPath)
	if credPath == "" {
		return fmt.Errorf("no credentials file: pass --credentials or set google_calendar.credentials_path")
	}

	data, err := os.ReadFile(credPath)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	oauthCfg, err := gcalendar.OAuthConfigFromJSON(data)
	if err != nil {
		return fmt.Errorf("%s is not an installed-app credentials file: %w", credPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Open this URL and sign in with the calendar owner account:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, oauthCfg.AuthCodeURL("schedctl", oauth2.AccessTypeOffline))
	fmt.Fprintln(out)
	fmt.Fprint(out, "Authorization code: ")

	code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && code == "" {
		return fmt.Errorf("read authorization code: %w", err)
	}
	tok, err := oauthCfg.Exchange(cmd.Context(), strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := gcalendar.SaveToken(tokenPath, tok); err != nil {
		return err
	}

	fmt.Fprintf(out, "Token saved to %s\n", tokenPath)
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
