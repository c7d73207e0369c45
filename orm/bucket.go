/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are serialized with length prefixed amino binary encoding.
* A model with all fields zero is never stored as an empty value.
* Easy queries for one entity by its primary key.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/compensation"
	"github.com/iov-one/compensation/errors"
	amino "github.com/tendermint/go-amino"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,16}$`).MatchString

	cdc = amino.NewCodec()
)

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	// Validate returns an error if the model is not in a valid state to
	// be saved.
	Validate() error
}

// Bucket is a prefixed subspace of the DB that holds models of a single
// type, addressed by their primary key.
type Bucket struct {
	name   string
	prefix []byte
}

var _ compensation.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name used to prefix all keys of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// A new slice is allocated so that consecutive calls never share the
// prefix backing array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One query the database for a single model instance. Result is loaded into
// given destination model, which must be a pointer.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b Bucket) One(db compensation.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "cannot load %T", dest)
	}
	return nil
}

// Has returns true if an entity with given key exists.
func (b Bucket) Has(db compensation.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Put saves given model in the database.
func (b Bucket) Put(db compensation.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b Bucket) Delete(db compensation.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Register registers this Bucket for queries under given path. If name is
// empty, the bucket name is used.
func (b Bucket) Register(name string, r compensation.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db compensation.ReadOnlyKVStore, mod string, data []byte) ([]compensation.Model, error) {
	if err := compensation.CheckQueryMod(mod); err != nil {
		return nil, err
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	// return nothing on miss
	if value == nil {
		return nil, nil
	}
	return []compensation.Model{compensation.Pair(key, value)}, nil
}

// Marshal serializes given model using the binary encoding shared by all
// buckets. The result is never empty.
func Marshal(m interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryLengthPrefixed(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal is the inverse of Marshal. dest must be a pointer.
func Unmarshal(raw []byte, dest interface{}) error {
	if err := cdc.UnmarshalBinaryLengthPrefixed(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}
