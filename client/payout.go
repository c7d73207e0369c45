package client

import (
	"context"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/app"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x/payout"
	"github.com/iov-one/compensation/x/sigs"
	"github.com/iov-one/compensation/x/token"
)

func (c *Client) store() *app.ABCIStore {
	return app.NewABCIStore(c)
}

// NextSequence returns the sequence the next signature of addr must use.
func (c *Client) NextSequence(addr compensation.Address) (int64, error) {
	var user sigs.UserData
	switch err := c.store().One("/auth", addr, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Balance returns the token balance of addr.
func (c *Client) Balance(addr compensation.Address) (uint64, error) {
	var w token.Wallet
	switch err := c.store().One("/wallets", addr, &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// PayoutState returns the ledger length, total and cursor.
func (c *Client) PayoutState() (*payout.State, error) {
	var s payout.State
	if err := c.store().One("/payout/state", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// User returns the beneficiary registered at ledger position pos.
func (c *Client) User(pos uint64) (*payout.Beneficiary, error) {
	var b payout.Beneficiary
	if err := c.store().One("/payout/users", payout.PositionKey(pos), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Beneficiary returns the ledger entry of addr. Unknown addresses return an
// unclaimed entry with zero amount.
func (c *Client) Beneficiary(addr compensation.Address) (*payout.Beneficiary, error) {
	var b payout.Beneficiary
	switch err := c.store().One("/payout/beneficiaries", addr, &b); {
	case err == nil:
		return &b, nil
	case errors.ErrNotFound.Is(err):
		return &payout.Beneficiary{Address: addr}, nil
	default:
		return nil, err
	}
}

// Users returns all registered beneficiaries in ledger order.
func (c *Client) Users() ([]*payout.Beneficiary, error) {
	state, err := c.PayoutState()
	if err != nil {
		return nil, err
	}
	users := make([]*payout.Beneficiary, 0, state.Length)
	for i := uint64(0); i < state.Length; i++ {
		b, err := c.User(i)
		if err != nil {
			return nil, errors.Wrapf(err, "user %d", i)
		}
		users = append(users, b)
	}
	return users, nil
}

// PayoutConfiguration returns the stored payout configuration.
func (c *Client) PayoutConfiguration() (*payout.Configuration, error) {
	var conf payout.Configuration
	if err := c.store().One("/_c", []byte("payout"), &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Claims returns all payments made by committed distribute transactions,
// oldest first.
func (c *Client) Claims(ctx context.Context) ([]payout.Claimed, error) {
	results, err := c.SearchTx(ctx, QueryTxByAction("payout/distribute"))
	if err != nil {
		return nil, err
	}
	var claims []payout.Claimed
	for _, res := range results {
		if res.Err != nil || res.Result == nil {
			continue
		}
		for _, tag := range res.Result.Tags {
			if string(tag.Key) != payout.ClaimedTag {
				continue
			}
			addr, amount, err := payout.ParseTagValue(tag.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "tx %X", res.ID)
			}
			claims = append(claims, payout.Claimed{Address: addr, Amount: amount})
		}
	}
	return claims, nil
}
