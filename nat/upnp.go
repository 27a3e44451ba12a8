package nat

import (
	"context"

	UpnP "github.com/NebulousLabs/go-UpnP"

	"github.com/F483/counterparty-lib/logging"
)

// SetupUpnp forwards the rpc port on a UpnP enabled router.
func SetupUpnp(port uint16) error {
	// Connect to router
	deliver, err := UpnP.DiscoverCtx(context.Background())
	if err != nil {
		logging.Fatalf("Unable to discover router %v\n", err)
	}
	// Get external IP
	ip, err := deliver.ExternalIP()
	if err != nil {
		logging.Fatalf("Unable to get external ip %v\n", err)
	}
	logging.Infof("Your external IP is %s", ip)
	// Forward rpc port
	err = deliver.Forward(uint16(port), "mpcd rpc port")
	if err != nil {
		logging.Fatalf("UpnP: Unable to forward rpc port %v\n", err)
	}
	return nil
}
