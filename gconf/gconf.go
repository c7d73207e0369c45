package gconf

import (
	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	"github.com/iov-one/compensation/orm"
)

// ReadStore is the part of compensation.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of compensation.KVStore Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a validated value stored once per package.
type Configuration interface {
	Validate() error
}

// Key returns the key of the configuration of pkg. The "_c:" prefix is not
// used by any bucket.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of pkg.
func Save(db Store, pkg string, src Configuration) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := orm.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of pkg into dst. ErrNotFound is returned
// before genesis.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	return errors.Wrapf(orm.Unmarshal(raw, dst), "unmarshal: key %q", key)
}

// InitConfig saves the genesis configuration found at conf.<pkg>:
//
//	"conf": {
//	  "payout": {"operator": "...", "register_cost": 10, "step_cost": 50}
//	}
func InitConfig(db Store, opts compensation.Options, pkg string, conf Configuration) error {
	var all compensation.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}

// RegisterQuery serves stored configurations under "/_c". The query data
// is the package name.
func RegisterQuery(qr compensation.QueryRouter) {
	qr.Register("/_c", compensation.KeyQuery(query))
}

func query(db compensation.ReadOnlyKVStore, pkg []byte) ([]compensation.Model, error) {
	key := Key(string(pkg))
	raw, err := db.Get(key)
	if err != nil || raw == nil {
		return nil, err
	}
	return []compensation.Model{compensation.Pair(key, raw)}, nil
}
