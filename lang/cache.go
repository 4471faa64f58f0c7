package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parsed expressions keyed by source and options hash.
// Trees are immutable, so one parse serves every caller.
var globalCache sync.Map

// entry tracks the single parse of one cache key.
type entry struct {
	once sync.Once
	expr *Expr
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(int(opts.policy))
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseCached parses s like [ParseString], sharing the result with every
// other call for the same source and options. Constant subtrees memoized by
// one caller are therefore seen by all of them.
//
// Expressions built with [WithFunction] are never cached, since functions
// cannot be compared.
func ParseCached(ctx context.Context, s string, opts ...Option) (*Expr, error) {
	tmp := newExpr(s, opts...)

	if len(tmp.funcs) > 0 {
		tmp.logger.TraceContext(ctx, "cache bypass",
			slog.Int("function_count", len(tmp.funcs)),
		)

		return ParseString(ctx, s, opts...)
	}

	sourceHash := xxh3.HashString(s)
	optsHash := hashOptions(tmp.opts)
	key := strconv.FormatUint(sourceHash, 36) + ":" +
		strconv.FormatUint(optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(key, new(entry))

	cached, ok := value.(*entry)
	if !ok {
		return nil, ErrInternal.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	tmp.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		cached.expr, cached.err = ParseString(ctx, s, opts...)
	})

	if cached.err != nil {
		return nil, cached.err
	}

	if cached.expr.Source != s {
		// Hash collision: the slot belongs to another source.
		return ParseString(ctx, s, opts...)
	}

	// Share the tree, but log through the caller's logger.
	e := *cached.expr
	e.logger = tmp.logger

	return &e, nil
}

// ClearCache removes all cached expressions.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
