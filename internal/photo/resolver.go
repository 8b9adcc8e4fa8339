// Package photo resolves the duality between internal storage object paths
// and externally usable URLs for patient photos. Only paths inside the
// configured bucket are ever signed; external URLs pass through untouched.
package photo

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/dentara/api/pkg/metrics"
)

// Signer issues time-limited access URLs for bucket object paths.
// *platform.Client satisfies it.
type Signer interface {
	CreateSignedURL(ctx context.Context, bucket, objectPath string, expiresIn int) (string, error)
}

// Resolver maps between canonical object paths and storage URLs for one
// bucket. It is cheap to construct and carries a per-request Signer.
type Resolver struct {
	bucket     string
	ttlSeconds int
	signer     Signer
	log        *zap.Logger
	collector  *metrics.Collector

	// The two URL templates the storage service emits: the signed/public
	// form and the bare object form.
	reSigned *regexp.Regexp
	reBare   *regexp.Regexp
}

func NewResolver(bucket string, ttlSeconds int, signer Signer, collector *metrics.Collector, log *zap.Logger) *Resolver {
	qb := regexp.QuoteMeta(bucket)
	return &Resolver{
		bucket:     bucket,
		ttlSeconds: ttlSeconds,
		signer:     signer,
		log:        log,
		collector:  collector,
		reSigned:   regexp.MustCompile(`/storage/v1/object/(?:public|sign)/` + qb + `/([^?]+)`),
		reBare:     regexp.MustCompile(`/storage/v1/object/` + qb + `/([^?]+)`),
	}
}

// PathFromURL classifies a stored reference. A non-URL string is already a
// canonical path (leading slashes stripped). A URL matching one of our
// bucket templates yields the captured object path. Anything else is an
// external URL: ok is false and the caller must leave it untouched — this
// is a classification result, not an error.
func (r *Resolver) PathFromURL(urlOrPath string) (string, bool) {
	s := strings.TrimSpace(urlOrPath)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "http") {
		return strings.TrimLeft(s, "/"), true
	}

	if m := r.reSigned.FindStringSubmatch(s); len(m) == 2 && m[1] != "" {
		return m[1], true
	}
	if m := r.reBare.FindStringSubmatch(s); len(m) == 2 && m[1] != "" {
		return m[1], true
	}
	return "", false
}

// SignedURL requests a fresh time-limited URL for a canonical path. Signing
// never fails the enclosing request: on any error it returns ok=false so
// one bad reference degrades to unavailable instead of poisoning the
// response. Failures are counted and logged so a misconfigured bucket
// surfaces as a rate rather than silence.
func (r *Resolver) SignedURL(ctx context.Context, objectPath string) (string, bool) {
	signed, err := r.signer.CreateSignedURL(ctx, r.bucket, objectPath, r.ttlSeconds)
	if err != nil {
		if r.collector != nil {
			r.collector.SignedURLFailuresTotal.Inc()
		}
		r.log.Warn("signed URL issuance failed",
			zap.String("object_path", objectPath),
			zap.Error(err),
		)
		return "", false
	}
	if r.collector != nil {
		r.collector.SignedURLsTotal.Inc()
	}
	return signed, true
}

// Outbound applies the sign-on-the-way-out policy to a stored photo
// reference: bucket paths become fresh signed URLs (nil when signing is
// unavailable), external URLs are returned verbatim, empty stays empty.
func (r *Resolver) Outbound(ctx context.Context, stored *string) *string {
	if stored == nil || strings.TrimSpace(*stored) == "" {
		return nil
	}
	path, ok := r.PathFromURL(*stored)
	if !ok {
		return stored
	}
	signed, ok := r.SignedURL(ctx, path)
	if !ok {
		return nil
	}
	return &signed
}
