// Package cache persists normal forms in a bbolt database so repeated
// batch runs skip terms that were already reduced.
package cache

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/vic/gosk/pkg/termdoc"
)

const normalFormsName = "normal-forms"

var normalFormsBkt = []byte(normalFormsName)

// ErrBadDB is returned when the database lacks its bucket.
var ErrBadDB = errors.New("cache database is missing its bucket")

// Cache maps encoded input terms to encoded normal forms.
type Cache struct {
	path string
	db   *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening cache database %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(normalFormsBkt)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "error creating bucket %s", normalFormsName)
	}
	logrus.Debugf("opened normal-form cache %s", path)
	return &Cache{path: path, db: db}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return errors.Wrapf(c.db.Close(), "error closing cache database %s", c.path)
}

// Key derives the lookup key for input reduced under the given options
// fingerprint.
func Key(fingerprint string, input termdoc.Node) ([]byte, error) {
	data, err := termdoc.MarshalNode(input)
	if err != nil {
		return nil, err
	}
	key := make([]byte, 0, len(fingerprint)+1+len(data))
	key = append(key, fingerprint...)
	key = append(key, 0)
	return append(key, data...), nil
}

func getNormalFormsBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	bkt := tx.Bucket(normalFormsBkt)
	if bkt == nil {
		return nil, errors.Wrapf(ErrBadDB, "%s bucket not found in DB", normalFormsName)
	}
	return bkt, nil
}

// Get returns the cached normal form for key.
func (c *Cache) Get(key []byte) (termdoc.Node, bool, error) {
	var (
		node  termdoc.Node
		found bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		bkt, err := getNormalFormsBucket(tx)
		if err != nil {
			return err
		}
		data := bkt.Get(key)
		if data == nil {
			return nil
		}
		node, err = termdoc.UnmarshalNode(data)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return termdoc.Node{}, false, err
	}
	return node, found, nil
}

// Put stores the normal form for key.
func (c *Cache) Put(key []byte, normal termdoc.Node) error {
	data, err := termdoc.MarshalNode(normal)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bkt, err := getNormalFormsBucket(tx)
		if err != nil {
			return err
		}
		if err := bkt.Put(key, data); err != nil {
			return errors.Wrapf(err, "error storing normal form")
		}
		return nil
	})
}

// Len returns the number of cached normal forms.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		bkt, err := getNormalFormsBucket(tx)
		if err != nil {
			return err
		}
		n = bkt.Stats().KeyN
		return nil
	})
	return n, err
}
