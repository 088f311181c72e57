package communication

import (
	"errors"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// Broker is the in-process NATS bus carrying directory events. The server
// is embedded so the service ships as a single binary with nothing extra to
// deploy; it binds a random loopback port at startup.
type Broker struct {
	server *natsserver.Server
	conn   *nats.Conn
}

// BrokerInstance is the process-wide event bus, set by StartBroker.
var BrokerInstance *Broker

// StartBroker launches the embedded NATS server and connects the shared
// client. Calling it again after a successful start is a no-op.
func StartBroker() error {
	if BrokerInstance != nil {
		return nil
	}

	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   natsserver.RANDOM_PORT,
		NoLog:  true,
		NoSigs: true,
	}
	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return fmt.Errorf("creating embedded NATS server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		return errors.New("embedded NATS server did not become ready")
	}

	conn, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return fmt.Errorf("connecting to embedded NATS server: %w", err)
	}

	BrokerInstance = &Broker{server: ns, conn: conn}
	return nil
}
