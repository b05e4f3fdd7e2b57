// Package ui renders terminal output for the dcos CLI: the node table,
// styled errors and warnings, and the color profile used for them.
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess (green)  - Successful operations
//	ColorError   (red)    - Failures and errors
//	ColorWarning (yellow) - Warnings
//	ColorMuted   (gray)   - Borders and secondary text
//
// Call ConfigureColor with the output stream before rendering so piped
// output carries no escape codes.
package ui
