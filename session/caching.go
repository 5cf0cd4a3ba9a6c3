package session

import (
	"context"

	"github.com/MrEthical07/aegis/cache"
)

// CachingDAO decorates a durable DAO with a front cache. Every durable
// write keeps the cache coherent: create and update write through,
// delete invalidates, and updating a record that is no longer valid
// uncaches it instead of re-caching a terminal session.
type CachingDAO struct {
	backing DAO
	cache   cache.Cache[string, *Record]
}

// NewCachingDAO fronts backing with c.
func NewCachingDAO(backing DAO, c cache.Cache[string, *Record]) *CachingDAO {
	return &CachingDAO{backing: backing, cache: c}
}

func (d *CachingDAO) Create(ctx context.Context, record *Record) error {
	if err := d.backing.Create(ctx, record); err != nil {
		return err
	}
	d.cache.Put(ctx, record.ID(), record)
	return nil
}

func (d *CachingDAO) Read(ctx context.Context, id string) (*Record, error) {
	if record, ok := d.cache.Get(ctx, id); ok {
		return record, nil
	}
	record, err := d.backing.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Put(ctx, id, record)
	return record, nil
}

func (d *CachingDAO) Update(ctx context.Context, record *Record) error {
	if err := d.backing.Update(ctx, record); err != nil {
		return err
	}
	if record.Valid() {
		d.cache.Put(ctx, record.ID(), record)
	} else {
		d.cache.Remove(ctx, record.ID())
	}
	return nil
}

func (d *CachingDAO) Delete(ctx context.Context, id string) error {
	if err := d.backing.Delete(ctx, id); err != nil {
		return err
	}
	d.cache.Remove(ctx, id)
	return nil
}

func (d *CachingDAO) ActiveSessions(ctx context.Context) ([]*Record, error) {
	return d.backing.ActiveSessions(ctx)
}
