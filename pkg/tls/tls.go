// Package tls serves the API over SPIFFE mTLS when a SPIRE agent is available.
package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"
	"github.com/spiffe/go-spiffe/v2/workloadapi"
	"go.uber.org/zap"
)

type Config struct {
	Enabled    bool
	SocketPath string
}

// svidSource is the part of workloadapi.X509Source the watcher reads.
type svidSource interface {
	GetX509SVID() (*x509svid.SVID, error)
}

// Source owns the workload API connection behind the server's certificates.
type Source struct {
	x509   *workloadapi.X509Source
	logger *zap.Logger
}

// Load returns a nil Source and nil config when TLS is disabled.
func Load(ctx context.Context, cfg Config, logger *zap.Logger) (*Source, *tls.Config, error) {
	logger = logger.Named("tls")
	if !cfg.Enabled {
		logger.Info("TLS is disabled")
		return nil, nil, nil
	}

	source, err := workloadapi.NewX509Source(ctx,
		workloadapi.WithClientOptions(workloadapi.WithAddr(cfg.SocketPath)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create X509Source: %w", err)
	}

	tlsConfig := tlsconfig.MTLSServerConfig(source, source, tlsconfig.AuthorizeAny())
	tlsConfig.MinVersion = tls.VersionTLS12

	logger.Info("SPIRE TLS configuration loaded",
		zap.String("socket_path", cfg.SocketPath),
		zap.Bool("mtls_enabled", true))

	return &Source{x509: source, logger: logger}, tlsConfig, nil
}

// Watch logs the current SVID's expiry every interval until ctx is done.
// SPIRE rotates the certificate itself.
func (s *Source) Watch(ctx context.Context, interval time.Duration) {
	if s == nil {
		return
	}
	watchSVID(ctx, s.x509, interval, s.logger)
}

func (s *Source) Close() error {
	if s == nil {
		return nil
	}
	return s.x509.Close()
}

func watchSVID(ctx context.Context, source svidSource, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		svid, err := source.GetX509SVID()
		if err != nil {
			logger.Error("Failed to get X509 SVID", zap.Error(err))
			continue
		}
		if len(svid.Certificates) == 0 {
			continue
		}
		expiry := svid.Certificates[0].NotAfter
		logger.Info("Certificate status",
			zap.String("spiffe_id", svid.ID.String()),
			zap.Time("expiry", expiry),
			zap.Duration("ttl", time.Until(expiry)))
	}
}
