// Package approval shows a signature request to a person and asks them to
// approve or reject it before anything is signed.
//
// Render produces the styled text on its own; NewModel wraps it in a
// scrollable bubbletea model and Run drives that model on a terminal.
package approval
