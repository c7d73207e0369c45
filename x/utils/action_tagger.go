package utils

import (
	"strings"

	"github.com/iov-one/compensation"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags every delivered transaction with the path of its
	// message, for example action='payout/distribute'.
	ActionKey = "action"
	// ModuleKey tags every delivered transaction with the extension that
	// handled it, for example module='payout'.
	ModuleKey = "module"
)

// ActionTagger adds the action and module tags to every successful delivery,
// so that clients can search and subscribe to registrations and payouts.
type ActionTagger struct{}

var _ compensation.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Checker) (*compensation.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx, next compensation.Deliverer) (*compensation.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, actionTags(msg.Path())...)
	return res, nil
}

func actionTags(path string) []common.KVPair {
	tags := []common.KVPair{{Key: []byte(ActionKey), Value: []byte(path)}}
	if i := strings.Index(path, "/"); i > 0 {
		tags = append(tags, common.KVPair{Key: []byte(ModuleKey), Value: []byte(path[:i])})
	}
	return tags
}
