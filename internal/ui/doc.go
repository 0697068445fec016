// Package ui provides the terminal user interface for Perch.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. A single Model holds all application
// state; every network response arrives as a message on the update loop, so
// no state is ever touched from more than one goroutine. Commands perform
// the HTTP calls and deliver their results back as typed messages.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Root model, Init/Update/View, global key handling, session flow
//   - commands.go: Message types and the tea.Cmd constructors that produce them
//   - feed.go: Home timeline view and the optimistic like machinery
//   - thread.go: Comment thread view with inline reply composition
//   - profile.go: Profile view and the optimistic follow toggle
//   - forms.go: Login, registration, and compose forms
//   - chrome.go: Header, footer, and the help overlay
//   - poll.go: Auto-refresh backoff policy
//   - theme.go: Color themes and Lipgloss styles
//
// # View Types
//
// Six views share the screen:
//
//   - Feed: Paginated public timeline, auto-refreshed on a timer
//   - Thread: One post with its comments, replies nested one level
//   - Profile: A user's counters and their posts
//   - Login / Register: Credential forms with inline validation errors
//   - Compose: New post entry
//
// # Data Flow
//
//  1. Init dispatches the session probe and the first feed page
//  2. Each fetch is tracked by a pager.Loader, which discards stale responses
//  3. Like and follow flips apply optimistically and settle on the server reply
//  4. Any unauthorized response forces a single logout and opens the login form
//
// # Key Bindings
//
//   - j/k: Move selection, pulling the next page near the end
//   - enter: Open the highlighted post's comment thread
//   - o: Open the author's profile
//   - l: Like or unlike
//   - f: Follow or unfollow (profile view)
//   - c / R: Comment on the post, reply to the highlighted comment
//   - n: Compose a new post
//   - r: Refresh the current view
//   - L / ctrl+d: Log in, log out
//   - T: Cycle color theme
//   - h or ?: Help overlay
//   - esc: Back to the feed
//   - q or Ctrl+C: Exit
package ui
