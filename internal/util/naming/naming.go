package naming

import "fmt"

// Server returns the backend server name of a slice node.
func Server(sliceName, node string) string {
	return fmt.Sprintf("%s-%s", sliceName, node)
}

// Network returns the backend network name of a slice network.
func Network(sliceName, network string) string {
	return fmt.Sprintf("%s-%s", sliceName, network)
}
