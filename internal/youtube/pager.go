package youtube

import (
	"context"
)

// PageFunc fetches one page of at most size IDs starting at token. It
// returns the IDs found and the token of the following page, empty on the
// last page.
type PageFunc func(ctx context.Context, size int, token string) (ids []string, next string, err error)

// Pager walks a paginated ID listing one request at a time. It stops when
// the listing has no further page or once maxTotal IDs were yielded, and
// it shrinks the requested page size as that limit approaches so nothing
// is fetched only to be thrown away. A Pager cannot be restarted.
type Pager struct {
	fetch     PageFunc
	pageSize  int
	remaining int
	token     string
	done      bool
	requests  int
}

// NewPager creates a pager. pageSize is clamped to 1..MaxPageSize.
func NewPager(fetch PageFunc, pageSize, maxTotal int) *Pager {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Pager{
		fetch:     fetch,
		pageSize:  pageSize,
		remaining: maxTotal,
		done:      maxTotal <= 0,
	}
}

// Done reports whether Next has nothing left to return
func (p *Pager) Done() bool {
	return p.done
}

// Requests returns how many pages were requested so far
func (p *Pager) Requests() int {
	return p.requests
}

// Next fetches the following page. A page may legitimately hold no IDs
// while more pages follow. After an error the pager is done.
func (p *Pager) Next(ctx context.Context) ([]string, error) {
	if p.done {
		return nil, nil
	}

	size := p.pageSize
	if p.remaining < size {
		size = p.remaining
	}

	p.requests++
	ids, next, err := p.fetch(ctx, size, p.token)
	if err != nil {
		p.done = true
		return nil, err
	}

	if len(ids) > p.remaining {
		ids = ids[:p.remaining]
	}
	p.remaining -= len(ids)
	p.token = next

	if p.token == "" || p.remaining <= 0 {
		p.done = true
	}

	return ids, nil
}
