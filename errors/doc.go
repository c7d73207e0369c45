/*
Package errors implements the error registry used by every extension.

Each error category is a root error created once with Register(code,
description). The code is returned to the client as the ABCI response code, so
it must be unique across the application. Extensions declare their own root
errors in their errors.go file using codes outside of the range reserved here
(below 1000).

Create error instances at the point of failure with Wrap or Wrapf, this
attaches a stack trace to the innermost frame:

	if balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "reserve holds %d", balance)
	}

Test the category with the Is method of the root error:

	if errors.ErrNotFound.Is(err) { ... }

Use fmt verbs to print more context: %s is the message only, %+v includes the
stack trace recorded by the first wrap.
*/
package errors
