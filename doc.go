/*
Package compensation defines the interfaces shared by the application
packages: storage, transactions, handlers, decorators and queries. It also
holds the helpers to pass block information through the context and to turn
handler results into ABCI responses.

The application itself is assembled in cmd/payoutd from the extensions found
under x/. The domain logic lives in x/payout.
*/
package compensation
