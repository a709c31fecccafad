package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient opens the database file and the books bucket then
// provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) *boltBookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close() error {
	return bs.client.Close()
}

// bookKey encodes a record id as a fixed-width big-endian key so the
// bucket cursor walks the records in ascending id order.
func bookKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// Create inserts a new book record with the next id from the bucket sequence.
func (bs *boltBookStorage) Create(_ context.Context, fields BookFields) (Book, error) {
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		book = Book{ID: int64(seq), Name: fields.Name, Edition: fields.Edition, Price: fields.Price}
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return bucket.Put(bookKey(book.ID), bookBytes)
	})
	return book, err
}

// GetOne retrieves a book record based on its ID from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, id int64) (Book, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get(bookKey(id))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Update overwrites all mutable fields of an existing book record.
func (bs *boltBookStorage) Update(_ context.Context, id int64, fields BookFields) (Book, error) {
	var book Book
	err := bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		if bucket.Get(bookKey(id)) == nil {
			return ErrBookNotFound
		}
		book = Book{ID: id, Name: fields.Name, Edition: fields.Edition, Price: fields.Price}
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		return bucket.Put(bookKey(id), bookBytes)
	})
	return book, err
}

// Delete removes a book record based on its ID from boltdb store.
func (bs *boltBookStorage) Delete(_ context.Context, id int64) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		if bucket.Get(bookKey(id)) == nil {
			return ErrBookNotFound
		}
		return bucket.Delete(bookKey(id))
	})
}

// GetAll retrieves the book records in ascending id order. A non-empty
// filter keeps only books whose name contains it, case-insensitively.
func (bs *boltBookStorage) GetAll(_ context.Context, filter string) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Cursor iteration follows key order, which is id order by construction.
	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()
	filter = strings.ToLower(filter)

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		if filter != "" && !strings.Contains(strings.ToLower(book.Name), filter) {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

// Save stores a record under its existing id. It backs the mutation
// mirror so it inserts or replaces without sequence bookkeeping.
func (bs *boltBookStorage) Save(_ context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put(bookKey(book.ID), bookBytes)
	})
}

// Remove drops a mirrored record. Unknown ids are not an error here since
// the mirror may lag behind the primary storage.
func (bs *boltBookStorage) Remove(_ context.Context, id int64) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Delete(bookKey(id))
	})
}
