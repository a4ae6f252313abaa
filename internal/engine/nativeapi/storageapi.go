package nativeapi

import (
	"context"
	"time"
)

// defaultCacheTTL applies when a cacheSet call carries no explicit ttl
// argument.
const defaultCacheTTL = 24 * time.Hour

// execStorage drives the CacheStore/KeyValueStore collaborators for the
// storage group (spec.md §6 "storage: cacheGet/Set (expiring),
// sourceVarGet/Set (persistent)").
func (p *Provider) execStorage(api string, args []string, ctx Context) string {
	switch api {
	case "cacheGet":
		if p.Cache == nil {
			p.warn(api, "no cache store configured")
			return ""
		}
		val, ok, err := p.Cache.Get(context.Background(), arg(args, 0))
		if err != nil || !ok {
			return ""
		}
		return val

	case "cacheSet":
		if p.Cache == nil {
			p.warn(api, "no cache store configured")
			return ""
		}
		ttl := defaultCacheTTL
		if ttlArg := arg(args, 2); ttlArg != "" {
			if parsed, err := time.ParseDuration(ttlArg); err == nil {
				ttl = parsed
			}
		}
		if err := p.Cache.Set(context.Background(), arg(args, 0), arg(args, 1), ttl); err != nil {
			p.warn(api, "cache set failed: "+err.Error())
		}
		return ""

	case "sourceVarGet":
		if p.KV == nil {
			p.warn(api, "no key-value store configured")
			return ""
		}
		val, err := p.KV.Get(context.Background(), arg(args, 0))
		if err != nil {
			return ""
		}
		return val

	case "sourceVarSet":
		if p.KV == nil {
			p.warn(api, "no key-value store configured")
			return ""
		}
		if err := p.KV.Set(context.Background(), arg(args, 0), arg(args, 1)); err != nil {
			p.warn(api, "kv set failed: "+err.Error())
		}
		return ""
	}
	return ""
}
