package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattercrypt/mattercrypt/internal/configs"
	"github.com/mattercrypt/mattercrypt/internal/credstore"
	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
	logger "github.com/mattercrypt/mattercrypt/internal/logging"
	"github.com/mattercrypt/mattercrypt/internal/mattermost"
	"github.com/mattercrypt/mattercrypt/internal/pgp"
	"github.com/mattercrypt/mattercrypt/internal/ui"
	"github.com/mattercrypt/mattercrypt/internal/utils"
	"github.com/mattercrypt/mattercrypt/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// openStore is swapped out in tests to avoid touching the system keyring.
var openStore = credstore.Open

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	recipients  []string
	sign        bool
	messageFile string
	reinit      bool
	keyringDir  string

	RootCmd = &cobra.Command{
		Use:   "mattercrypt [message]",
		Short: "Send OpenPGP encrypted messages over Mattermost direct channels",
		Long: `Mattercrypt encrypts a message for each recipient with OpenPGP and
delivers the ciphertext as a Mattermost direct message.

The message is taken from the first argument, from --file, or from stdin,
in that order. Each recipient gets the message encrypted to their own key,
wrapped in a shell snippet they can paste into a terminal to decrypt it.

Examples:
  mattercrypt --to bob@example.com "meet at noon"
  mattercrypt --to bob@example.com --to carol@example.com --sign --file notes.txt
  git diff | mattercrypt --to ops@example.com

On the first run mattercrypt asks for the server URL and your login, and
stores the password in the system keyring. Run with --reinit to enter new
settings.
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing root command with verbose=%t, debug=%t", verbose, debug)
		},
		RunE: runSend,
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.Flags().StringArrayVarP(&recipients, "to", "t", nil, "recipient email address (repeatable)")
	RootCmd.Flags().BoolVarP(&sign, "sign", "s", false, "sign the message with your private key")
	RootCmd.Flags().StringVarP(&messageFile, "file", "f", "", "read the message from a file")
	RootCmd.Flags().BoolVar(&reinit, "reinit", false, "prompt for new settings before sending")
	RootCmd.Flags().StringVar(&keyringDir, "keyring", "", "read keys from armored keyring files in this directory instead of gpg")
}

func runSend(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting send command")

	store, err := openStore()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to open system keyring: %v", err)
	}

	settings, err := loadOrInitSettings(store)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load settings: %v", err)
	}
	Logger.Debugf("Using server %s as %s", settings.APIURL, settings.Username)

	message, err := resolveMessage(args)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to read message: %v", err)
	}

	for _, recipient := range recipients {
		if !utils.IsValidEmail(recipient) {
			Logger.WarnfUser("%s does not look like an email address", recipient)
		}
	}
	if len(recipients) == 0 {
		Logger.WarnfUser("No recipients given, only checking your login")
	}

	api := mattermost.NewClient(settings.APIURL)
	enc := newEncryptor()

	spinner, cleanup := startSpinner("Sending encrypted message...", verbose)
	defer cleanup()

	var blocks bytes.Buffer
	result, err := workflows.Send(context.Background(), api, enc, &blocks, workflows.SendOptions{
		Settings:   settings,
		Recipients: recipients,
		Message:    message,
		Sign:       sign,
		OnRecipient: func(email string) {
			Logger.Infof("Sending to %s", email)
			spinner.Suffix = " Sending to " + email + "..."
		},
	})
	spinner.FinalMSG = blocks.String()
	if err != nil {
		spinner.FinalMSG += ui.Error.Sprint("✗") + " Message delivery stopped\n"
		if errors.Is(err, mcerrors.ErrKeyNotFound) && keyringDir == "" {
			spinner.FinalMSG += ui.Info.Sprint("→") + " Import the recipient's public key with " + ui.Code.Sprint("gpg --import") + " and try again\n"
		}
		return Logger.ErrorfAndReturn("Failed to send message: %v", err)
	}

	if len(result.Delivered) == 0 {
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Logged in as " + ui.Highlight.Sprint(settings.Username) + " " + ui.Muted.Sprint("no message sent") + "\n"
	}

	Logger.Infof("Delivered to %d recipients", len(result.Delivered))
	return nil
}

// loadOrInitSettings loads stored settings, falling back to the interactive
// setup on the very first run or when --reinit was given.
func loadOrInitSettings(store *credstore.Store) (*configs.Settings, error) {
	if reinit {
		return configs.InitSettings(bufio.NewReader(os.Stdin), store)
	}

	settings, err := configs.LoadSettings(store)
	switch {
	case errors.Is(err, mcerrors.ErrSettingsNotFound):
		Logger.Infof("No settings found, starting first time setup")
		return configs.InitSettings(bufio.NewReader(os.Stdin), store)
	case errors.Is(err, mcerrors.ErrCredentialNotFound):
		return nil, fmt.Errorf("%w: run with %s to store it again", err, ui.Flag.Sprint("--reinit"))
	case err != nil:
		return nil, err
	}
	return settings, nil
}

// resolveMessage picks the message source: the positional argument wins,
// then --file, then stdin read until EOF.
func resolveMessage(args []string) (string, error) {
	if len(args) > 0 {
		if messageFile != "" {
			Logger.WarnfUser("Both a message argument and --file were given, using the argument")
		}
		return args[0], nil
	}

	if messageFile != "" {
		Logger.Debugf("Reading message from %s", messageFile)
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	Logger.Debugf("Reading message from stdin")
	data, err := utils.ReadStdin()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// newEncryptor picks the encryption backend: the local gpg binary by
// default, armored keyring files when --keyring was given.
func newEncryptor() pgp.Encryptor {
	if keyringDir != "" {
		Logger.Debugf("Using armored keyring files in %s", keyringDir)
		return &pgp.Keyring{Dir: keyringDir}
	}
	return &pgp.GPG{}
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	recipients = nil
	sign = false
	messageFile = ""
	reinit = false
	keyringDir = ""
	openStore = credstore.Open
	resetCobraFlagState()
}

// resetCobraFlagState resets the flag state for the root command to prevent test pollution.
func resetCobraFlagState() {
	if RootCmd != nil && RootCmd.Flags() != nil {
		RootCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
