package cache

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"
)

// Local is an in-process cache. Entries expire after the life window given
// to NewLocal; the per-call ttl is ignored.
type Local struct {
	big *bigcache.BigCache
}

func NewLocal(lifeWindow time.Duration) (*Local, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = lifeWindow
	big, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise big cache")
	}
	return &Local{big: big}, nil
}

func (l *Local) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return l.big.Set(key, value)
}

func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := l.big.Get(key)
	if err == bigcache.ErrEntryNotFound {
		return nil, ErrNotFound
	}
	return out, err
}

func (l *Local) Delete(ctx context.Context, key string) error {
	err := l.big.Delete(key)
	if err == bigcache.ErrEntryNotFound {
		return nil
	}
	return err
}

func (l *Local) Close() error {
	return l.big.Close()
}
