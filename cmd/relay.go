package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/icon"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/relay"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(relayCmd)
}

// relayCmd groups the MediaFlow relay credential commands.
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Manage the MediaFlow relay credentials",
}

func init() {
	relayCmd.AddCommand(relayLoginCmd)
	relayLoginCmd.Flags().StringP("password", "p", "", "The api_password to store. Read from stdin when omitted")
}

// relayLoginCmd stores the relay password in the system keyring.
var relayLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the relay api_password in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		password := lo.Must(cmd.Flags().GetString("password"))
		if password == "" {
			var err error
			password, err = readPassword()
			handleErr(err)
		}

		if password == "" {
			handleErr(errors.New("password is required"))
		}

		handleErr(relay.SetPassword(password))
		fmt.Printf("%s relay password stored in the keyring\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "%s api_password: ", icon.Get(icon.Key))
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(string(raw)), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	relayCmd.AddCommand(relayLogoutCmd)
}

// relayLogoutCmd removes the stored relay password.
var relayLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the relay api_password from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(relay.DeletePassword())
		fmt.Printf("%s relay password removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	relayCmd.AddCommand(relayStatusCmd)
	relayStatusCmd.SetOut(os.Stdout)
}

// relayStatusCmd reports where the relay URL and password come from.
var relayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the relay URL and where its password comes from",
	Run: func(cmd *cobra.Command, args []string) {
		label := style.New().Bold(true).Foreground(color.Purple).Render

		base := viper.GetString(key.RelayURL)
		cmd.Printf("%s %s\n", label("url"), lo.Ternary(base == "", style.Fg(color.Red)("unset"), style.Fg(color.Green)(base)))

		var from string
		switch stored, err := relay.GetPassword(); {
		case err == nil && stored != "":
			from = style.Fg(color.Green)("keyring")
		case viper.GetString(key.RelayPassword) != "":
			from = style.Fg(color.Yellow)("config")
		default:
			from = style.Fg(color.Red)("unset")
		}
		cmd.Printf("%s %s\n", label("password"), from)
	},
}
