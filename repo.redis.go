package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis keys holding the records hash and the id sequence counter.
const (
	HBooks      string = "books"
	KBooksCount string = "books:next_id"
)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) *redisBookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Create inserts a new book record under the next id from the counter key.
// Ids move forward only, so a deleted record id is never handed out again.
func (rs *redisBookStorage) Create(ctx context.Context, fields BookFields) (Book, error) {
	var book Book
	id, err := rs.client.Incr(ctx, KBooksCount).Result()
	if err != nil {
		return book, err
	}
	book = Book{ID: id, Name: fields.Name, Edition: fields.Edition, Price: fields.Price}
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	return book, rs.client.HSet(ctx, HBooks, strconv.FormatInt(id, 10), bookBytes).Err()
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id int64) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, strconv.FormatInt(id, 10)).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Update overwrites all mutable fields of an existing book record.
func (rs *redisBookStorage) Update(ctx context.Context, id int64, fields BookFields) (Book, error) {
	var book Book
	field := strconv.FormatInt(id, 10)
	exists, err := rs.client.HExists(ctx, HBooks, field).Result()
	if err != nil {
		return book, err
	}
	if !exists {
		return book, ErrBookNotFound
	}
	book = Book{ID: id, Name: fields.Name, Edition: fields.Edition, Price: fields.Price}
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	return book, rs.client.HSet(ctx, HBooks, field, bookBytes).Err()
}

// Delete removes a book record based on its ID.
func (rs *redisBookStorage) Delete(ctx context.Context, id int64) error {
	removed, err := rs.client.HDel(ctx, HBooks, strconv.FormatInt(id, 10)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetAll retrieves the book records in ascending id order. The hash holds
// fields in no particular order so the result is sorted client-side.
func (rs *redisBookStorage) GetAll(ctx context.Context, filter string) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, err
	}
	filter = strings.ToLower(filter)
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		if filter != "" && !strings.Contains(strings.ToLower(book.Name), filter) {
			continue
		}
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}
