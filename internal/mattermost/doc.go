// Package mattermost is a minimal client for the Mattermost v4 REST API.
//
// It covers exactly the four calls mattercrypt performs: session login,
// user lookup by email, opening a direct channel, and creating a post.
// Every call is one synchronous HTTP exchange; there is no retry, no
// pagination, and no websocket. The client's only resilience is a 30
// second timeout on the underlying http.Client.
//
// # Authentication
//
// Login stores the session token from the Token response header and sends
// it as a bearer Authorization header on subsequent requests. The client
// is not safe for concurrent use during Login; mattercrypt logs in once
// and then only reads the token.
//
// # Errors
//
// Any response with status >= 400 is returned as *APIError carrying the
// status code and the message field of the server's error JSON (or the
// raw body when the JSON cannot be parsed). Use AsAPIError or errors.As
// to inspect it. Transport failures are returned as-is.
package mattermost
