/*
Package token implements the single fungible token used to fund
compensation payouts.

Each address holds a Wallet with an unsigned balance. Tokens are created at
genesis and moved with SendMsg or by other extensions through the
Controller.
*/
package token
