package main

import (
	"context"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Create(ctx context.Context, fields BookFields) (Book, error)
	GetOne(ctx context.Context, id int64) (Book, error)
	Update(ctx context.Context, id int64, fields BookFields) (Book, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, filter string) ([]Book, error)
}

type BookService struct {
	logger  *zap.Logger
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		storage: storage,
		queue:   queue,
	}
}

// Create stores a new record then announces it on the creation queue.
func (bs *BookService) Create(ctx context.Context, fields BookFields) (Book, error) {
	book, err := bs.storage.Create(ctx, fields)
	if err != nil {
		return book, err
	}
	if err := bs.queue.Push(ctx, CreateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", CreateQueue), zap.Error(err))
	}
	return book, nil
}

func (bs *BookService) GetOne(ctx context.Context, id int64) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	return book, err
}

// Update overwrites the record fields then announces the new state.
func (bs *BookService) Update(ctx context.Context, id int64, fields BookFields) (Book, error) {
	book, err := bs.storage.Update(ctx, id, fields)
	if err != nil {
		return book, err
	}
	if err := bs.queue.Push(ctx, UpdateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", UpdateQueue), zap.Error(err))
	}
	return book, nil
}

// Delete drops the record then announces the removal.
func (bs *BookService) Delete(ctx context.Context, id int64) error {
	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}
	if err := bs.queue.Push(ctx, DeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", DeleteQueue), zap.Error(err))
	}
	return nil
}

func (bs *BookService) GetAll(ctx context.Context, filter string) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx, filter)
	return books, err
}
