package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// boltDBConsumer drains mutation queues into the on-disk bolt mirror so
// the mirror converges with the primary redis storage.
type boltDBConsumer struct {
	logger *zap.Logger
	queue  Queuer
	mirror BookMirror
}

func NewBoltDBConsumer(logger *zap.Logger, q Queuer, mirror BookMirror) Consumer {
	return &boltDBConsumer{logger, q, mirror}
}

func (bc *boltDBConsumer) Consume(ctx context.Context, qids ...string) error {
	var book Book
	var err error
	var qid string
	for {
		qid, book, err = bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case CreateQueue, UpdateQueue:
			if err = bc.mirror.Save(ctx, book); err != nil {
				bc.logger.Error("consumer: failed to mirror record", zap.String("qid", qid), zap.Int64("book.id", book.ID), zap.Error(err))
			}
		case DeleteQueue:
			if err = bc.mirror.Remove(ctx, book.ID); err != nil {
				bc.logger.Error("consumer: failed to drop mirrored record", zap.Int64("book.id", book.ID), zap.Error(err))
			}
		default:
			bc.logger.Warn("consumer: received book on unknown queue id", zap.String("qid", qid), zap.Int64("book.id", book.ID))
		}
	}
}
