package main

import (
	"context"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	CreateFunc func(ctx context.Context, fields BookFields) (Book, error)
	GetOneFunc func(ctx context.Context, id int64) (Book, error)
	UpdateFunc func(ctx context.Context, id int64, fields BookFields) (Book, error)
	DeleteFunc func(ctx context.Context, id int64) error
	GetAllFunc func(ctx context.Context, filter string) ([]Book, error)
}

func (m *MockBookStorage) Create(ctx context.Context, fields BookFields) (Book, error) {
	return m.CreateFunc(ctx, fields)
}

func (m *MockBookStorage) GetOne(ctx context.Context, id int64) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockBookStorage) Update(ctx context.Context, id int64, fields BookFields) (Book, error) {
	return m.UpdateFunc(ctx, id, fields)
}

func (m *MockBookStorage) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockBookStorage) GetAll(ctx context.Context, filter string) ([]Book, error) {
	return m.GetAllFunc(ctx, filter)
}

type MockQueue struct {
	PushFunc func(ctx context.Context, qid string, book Book) error
	PopFunc  func(ctx context.Context, qids ...string) (string, Book, error)
}

func (m *MockQueue) Push(ctx context.Context, qid string, book Book) error {
	return m.PushFunc(ctx, qid, book)
}

func (m *MockQueue) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	return m.PopFunc(ctx, qids...)
}
