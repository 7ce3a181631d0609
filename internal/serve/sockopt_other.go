//go:build !unix

package serve

import "syscall"

func broadcastControl(network, address string, c syscall.RawConn) error {
	return nil
}
