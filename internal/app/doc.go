// Package app wires configuration, credentials, the API client, and the
// session store together and hands them to the UI.
package app
