// Command atlsclient is the reference entry point for dialing a single
// attested TLS peer: it loads configuration, wires the AAS-ACI and AAS-CVM
// validators behind an atls.Dialer, performs one handshake, and logs whether
// it succeeded (with the AAS-ACI validator's last diagnostic on failure). It
// does not report which validator accepted the peer certificate.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunet/atls/pkg/atls"
	"github.com/sunet/atls/pkg/config"
	"github.com/sunet/atls/pkg/logger"
	"github.com/sunet/atls/pkg/validators/aasaci"
	"github.com/sunet/atls/pkg/validators/aascvm"

	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	log, err := logger.New("atlsclient", cfg.Common.Log.FolderPath, cfg.Common.Production)
	if err != nil {
		panic(err)
	}
	mainLog := log.New("main")

	sessionID := uuid.NewString()
	sessionLog := mainLog.New(sessionID)

	aasaciValidator := aasaci.New(aasaci.Config{
		JKUAllowlist:       cfg.Client.JKUAllowlist,
		CCEPolicyAllowlist: cfg.Client.CCEPolicyAllowlist,
		JWKSTimeout:        cfg.Client.JWKSTimeout(),
		JWKSCacheTTL:       cfg.Client.JWKSCacheTTL(),
		Log:                sessionLog.New("aasaci"),
	})
	defer aasaciValidator.Close()

	cvmValidator := aascvm.New(sessionLog.New("aascvm"))

	dialer := &atls.Dialer{
		NewContext: func() (*atls.Context, error) {
			return atls.New([]atls.Validator{cvmValidator, aasaciValidator}, nil, sessionLog.New("atls"))
		},
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Client.ConnectTimeout())
	defer cancel()

	started := time.Now()
	conn, err := dialer.DialContext(dialCtx, "tcp", cfg.Client.Target)
	if err != nil {
		sessionLog.Info("attested handshake failed", "target", cfg.Client.Target, "error", err, "aasaci_diagnostic", aasaciValidator.LastError())
		os.Exit(1)
	}
	defer conn.Close()

	sessionLog.Info("attested handshake succeeded", "target", cfg.Client.Target, "elapsed", time.Since(started).String())

	<-ctx.Done()
	sessionLog.Info("shutting down")
}
