// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sitegen/sitegen/internal/issue"

	"github.com/charmbracelet/fang"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// A zero issueID is filled in from the error when it can be classified.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	if issueID == 0 {
		issueID = classifyError(err)
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError renders a ServiceError in the CLI layer: the styled
// message, the actionable error with its suggestions, then the issue
// catalog entry.
func renderServiceError(w io.Writer, svcErr *ServiceError, verbose bool, glamourStyle string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(w, svcErr.StyledMessage)
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(svcErr.Err, verbose))

	if svcErr.IssueID == 0 {
		return
	}
	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(glamourStyle)
		if renderErr != nil {
			newLogger(w, false).Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "err", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// errorHandler renders ServiceErrors with their catalog entry and leaves
// every other error to fang's default presentation.
func errorHandler(verbose *bool, glamourStyle *string) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			renderServiceError(w, svcErr, *verbose, *glamourStyle)
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}
