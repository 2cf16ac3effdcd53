// Package workflows provides high-level orchestration for mattercrypt
// commands.
//
// Workflows coordinate multiple operations across packages (configs,
// mattermost, pgp) to implement complete user-facing features, independent
// of CLI concerns like flag parsing, spinners, and prompting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Manages progress display around the workflow
//
// Workflows handle everything else:
//   - Authenticating against the Mattermost server
//   - Encrypting the message per recipient
//   - Resolving recipients and posting into direct channels
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Send(ctx, api, enc, os.Stdout, opts)
//	if errors.Is(err, mcerrors.ErrKeyNotFound) {
//	    // Tell the user to import the recipient's public key
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
