package gconf

import (
	"reflect"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/x"
)

// OwnedConfig is a configuration that only its owner may change.
type OwnedConfig interface {
	Configuration
	GetOwner() compensation.Address
}

// UpdateConfigurationHandler applies a partial update to the configuration
// of one package.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ compensation.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler for messages that carry a
// "Patch" field of the same pointer type as config. The configuration must
// exist already, usually created from genesis, and the transaction must be
// signed by its current owner.
//
// Zero value fields of the patch leave the stored value unchanged. A patch
// that sets a new owner hands the configuration over.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &compensation.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) (*compensation.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	compensation.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &compensation.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) apply(ctx compensation.Context, db compensation.KVStore, tx compensation.Tx) error {
	// A fresh instance per call, h.config is only a type template.
	current := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	if err := Load(db, h.pkg, current); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	if err := x.RequireAddress(ctx, h.auth, current.GetOwner(), "owner"); err != nil {
		return err
	}

	p, err := patchOf(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if reflect.TypeOf(p) != reflect.TypeOf(current) {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}
	merge(reflect.ValueOf(current).Elem(), reflect.ValueOf(p).Elem())

	if err := Save(db, h.pkg, current); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// merge copies every non zero field of src into dst.
func merge(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
}

// patchOf validates the message of tx and returns its "Patch" field.
func patchOf(tx compensation.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrState, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := v.Elem().FieldByName("Patch")
	switch {
	case !field.IsValid() || field.Kind() != reflect.Ptr:
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is required`)
	case field.IsNil():
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	p, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return p, nil
}
