package crypto

import "context"

// ConcurrentHasher is the context-aware hashing surface used by request flows.
type ConcurrentHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash string, password string) error
}

type hashTask struct {
	run func()
}

// BoundedHasher runs bcrypt work on a fixed pool of workers so that a burst of
// signups or logins cannot saturate the scheduler. Submission honors the
// caller's context; once a task is picked up it runs to completion even if the
// caller has gone away.
type BoundedHasher struct {
	inner PasswordHasher
	queue chan hashTask
}

func NewBoundedHasher(inner PasswordHasher, workers, queueSize int) *BoundedHasher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	b := &BoundedHasher{
		inner: inner,
		queue: make(chan hashTask, queueSize),
	}

	for i := 0; i < workers; i++ {
		go b.worker()
	}

	return b
}

func (b *BoundedHasher) worker() {
	for task := range b.queue {
		task.run()
	}
}

type hashResult struct {
	hash string
	err  error
}

func (b *BoundedHasher) Hash(ctx context.Context, password string) (string, error) {
	result := make(chan hashResult, 1)

	task := hashTask{run: func() {
		hash, err := b.inner.Hash(password)
		result <- hashResult{hash: hash, err: err}
	}}

	select {
	case b.queue <- task:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-result:
		return res.hash, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *BoundedHasher) Compare(ctx context.Context, hash string, password string) error {
	result := make(chan error, 1)

	task := hashTask{run: func() {
		result <- b.inner.Compare(hash, password)
	}}

	select {
	case b.queue <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
