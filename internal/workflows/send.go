package workflows

import (
	"context"
	"fmt"
	"io"

	"github.com/mattercrypt/mattercrypt/internal/configs"
	"github.com/mattercrypt/mattercrypt/internal/mattermost"
	"github.com/mattercrypt/mattercrypt/internal/pgp"
	"github.com/mattercrypt/mattercrypt/internal/ui"
)

// APIClient is the slice of the Mattermost API the send workflow needs.
// *mattermost.Client implements it; tests substitute fakes.
type APIClient interface {
	Login(ctx context.Context, loginID, password string) (*mattermost.User, error)
	GetUserByEmail(ctx context.Context, email string) (*mattermost.User, error)
	CreateDirectChannel(ctx context.Context, fromID, toID string) (string, error)
	CreatePost(ctx context.Context, channelID, message string) error
}

// SendOptions configures the send workflow.
type SendOptions struct {
	// Settings holds the server URL and login credentials.
	Settings *configs.Settings

	// Recipients lists destination email addresses, processed in order.
	Recipients []string

	// Message is the plaintext to encrypt and deliver.
	Message string

	// Sign additionally signs each ciphertext with the sender's key.
	Sign bool

	// OnRecipient, if set, is called before each recipient is processed.
	// The CLI uses it to update its progress display.
	OnRecipient func(email string)
}

// Delivery records one message that was posted successfully.
type Delivery struct {
	// Recipient is the email address the message was delivered to.
	Recipient string

	// Fingerprint is the fingerprint of the key the message was encrypted to.
	Fingerprint string

	// ChannelID is the direct channel the message was posted in.
	ChannelID string
}

// SendResult contains the outcome of a send operation.
type SendResult struct {
	// Sender is the authenticated user the messages were sent from.
	Sender *mattermost.User

	// Delivered lists the recipients whose message was posted, in order.
	Delivered []Delivery
}

// Send logs in once, then encrypts and delivers the message to each
// recipient in order. For every recipient it encrypts the message to the
// recipient's key, resolves the recipient's Mattermost account by email,
// opens the direct channel, posts the ciphertext wrapped in decrypt
// instructions, and writes a confirmation block to out.
//
// The first failure aborts the run. Posts already made stay up; there is
// no rollback for partial delivery, and the returned result lists what
// was delivered before the failure.
//
// Returns ErrTokenMissing if the server accepts the login but sends no
// session token.
// Returns ErrKeyNotFound if a recipient has no public key.
// Returns ErrNoSigningKey if signing is requested without a private key.
func Send(ctx context.Context, api APIClient, enc pgp.Encryptor, out io.Writer, opts SendOptions) (*SendResult, error) {
	sender, err := api.Login(ctx, opts.Settings.Username, opts.Settings.Password)
	if err != nil {
		return nil, fmt.Errorf("logging in as %s: %w", opts.Settings.Username, err)
	}

	result := &SendResult{Sender: sender}

	for _, recipient := range opts.Recipients {
		if opts.OnRecipient != nil {
			opts.OnRecipient(recipient)
		}

		ciphertext, err := enc.Encrypt(recipient, []byte(opts.Message), opts.Sign)
		if err != nil {
			return result, fmt.Errorf("encrypting for %s: %w", recipient, err)
		}

		to, err := api.GetUserByEmail(ctx, recipient)
		if err != nil {
			return result, fmt.Errorf("looking up %s: %w", recipient, err)
		}

		channelID, err := api.CreateDirectChannel(ctx, sender.ID, to.ID)
		if err != nil {
			return result, fmt.Errorf("opening direct channel with %s: %w", recipient, err)
		}

		wrapped := wrapMessage(ciphertext.Armored)
		if err := api.CreatePost(ctx, channelID, wrapped); err != nil {
			return result, fmt.Errorf("posting to %s: %w", recipient, err)
		}

		writeConfirmation(out, sender.Email, to.Email, ciphertext.Fingerprint, wrapped)

		result.Delivered = append(result.Delivered, Delivery{
			Recipient:   to.Email,
			Fingerprint: ciphertext.Fingerprint,
			ChannelID:   channelID,
		})
	}

	return result, nil
}

// wrapMessage embeds the armored ciphertext in the shell snippet recipients
// can paste to decrypt it.
func wrapMessage(armored string) string {
	return "```\necho \"\n" + armored + "\" | gpg --decrypt\n```"
}

// writeConfirmation prints the per-recipient delivery summary.
func writeConfirmation(out io.Writer, from, to, fingerprint, wrapped string) {
	fmt.Fprintln(out, ui.Success.Sprint("✓")+" Successfully sent message")
	fmt.Fprintln(out, "FROM:\t"+ui.Sender.Sprint(from))
	fmt.Fprintln(out, "TO:\t"+ui.Recipient.Sprint(to))
	fmt.Fprintln(out, "FINGERPRINT: "+ui.Recipient.Sprint(fingerprint))
	fmt.Fprintln(out, "MESSAGE:")
	fmt.Fprintln(out, wrapped)
}
