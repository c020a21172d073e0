package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Announce the TCP keypad port using DNS-SD, so
 *		clients on the local network can find it without
 *		being told an address and port.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

const SymbolServiceType = "_dtmf-keypad._tcp"

// DefaultServiceName is "DTMF codec on <hostname>", or just "DTMF codec".
func DefaultServiceName() string {
	var hostname, hostnameErr = os.Hostname()
	if hostnameErr != nil {
		return "DTMF codec"
	}

	// Some systems return an FQDN.
	hostname, _, _ = strings.Cut(hostname, ".")

	return "DTMF codec on " + hostname
}

// AnnounceSymbolService responds to DNS-SD queries in the background until ctx is done.
func AnnounceSymbolService(ctx context.Context, name string, port int, logger *log.Logger) error {
	if name == "" {
		name = DefaultServiceName()
	}

	var cfg = dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: SymbolServiceType,
		Port: port,
	}

	var sv, svErr = dnssd.NewService(cfg)
	if svErr != nil {
		return fmt.Errorf("DNS-SD: create service: %w", svErr)
	}

	var rp, rpErr = dnssd.NewResponder()
	if rpErr != nil {
		return fmt.Errorf("DNS-SD: create responder: %w", rpErr)
	}

	if _, err := rp.Add(sv); err != nil {
		return fmt.Errorf("DNS-SD: add service: %w", err)
	}

	logger.Infof("DNS-SD: Announcing keypad TCP on port %d as '%s'", port, name)

	go func() {
		var respondErr = rp.Respond(ctx)
		if respondErr != nil && ctx.Err() == nil {
			logger.Errorf("DNS-SD: Responder error: %v", respondErr)
		}
	}()

	return nil
}
