package configs

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/mattercrypt/mattercrypt/internal/credstore"
	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
	"github.com/mattercrypt/mattercrypt/internal/ui"
)

// readPassword reads a password without echoing. Tests replace it to avoid
// needing a real terminal.
var readPassword = term.ReadPassword

// promptForInput prompts the user for a single line of input.
func promptForInput(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Printf("%s: ", color.CyanString(prompt))

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(input), nil
}

// promptForPassword prompts the user for a password without echoing input.
func promptForPassword(prompt string) (string, error) {
	fmt.Printf("%s: ", color.CyanString(prompt))

	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}

// printWelcomeBanner displays the first-run banner.
func printWelcomeBanner() {
	fmt.Println()
	myFigure := figure.NewColorFigure("mattercrypt", "alligator2", "cyan", true)
	myFigure.Print()
	fmt.Println()
	fmt.Println(color.CyanString("Welcome to mattercrypt!") + " Let's set up your Mattermost connection.")
	fmt.Println()
}

// InitSettings runs the interactive first-run setup. It prompts for the
// server API URL, the login username, and the password entered twice, stores
// the password in the credential store, writes the settings file, and
// returns the assembled settings.
//
// A password mismatch aborts before anything is persisted.
func InitSettings(reader *bufio.Reader, store *credstore.Store) (*Settings, error) {
	printWelcomeBanner()

	apiURL, err := promptForInput(reader, "API Url (e.g. https://my-mattermost-server.com/api/v4)")
	if err != nil {
		return nil, err
	}

	username, err := promptForInput(reader, "Login username")
	if err != nil {
		return nil, err
	}

	password, err := promptForPassword("Login Password (will be securely stored in keyring)")
	if err != nil {
		return nil, err
	}

	repeated, err := promptForPassword("Repeat password")
	if err != nil {
		return nil, err
	}

	if password != repeated {
		return nil, mcerrors.ErrPasswordMismatch
	}

	if err := store.SetPassword(username, password); err != nil {
		return nil, err
	}

	stored := &StoredSettings{
		APIURL:   apiURL,
		Username: username,
	}
	if err := SaveStoredSettings(stored); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println(ui.Success.Sprint("✓") + " Settings saved to " + ui.Path.Sprint(UserMattercryptSettings.SettingsPath))
	fmt.Println()

	return &Settings{
		APIURL:   apiURL,
		Username: username,
		Password: password,
	}, nil
}
