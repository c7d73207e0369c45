/*
Package x contains the extensions of the compensation application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in cmd/payoutd to construct the
application. Authentication is shared between them through the
Authenticator interface defined here.
*/
package x
