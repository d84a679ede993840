package adms

import "fmt"

// HandshakeBlob renders the configuration text a terminal polls for. The
// keys and values are fixed by the protocol; only the serial is echoed
// back. Encrypt stays 0: the terminals push plaintext.
func HandshakeBlob(serial string) string {
	return fmt.Sprintf("GET OPTION FROM: %s\n"+
		"ATTLOGStamp=None\n"+
		"OpStamp=None\n"+
		"PhotoStamp=None\n"+
		"ErrorDelay=30\n"+
		"Delay=10\n"+
		"TransTimes=00:00;14:05\n"+
		"TransInterval=1\n"+
		"TransFlag=1111000000\n"+
		"Realtime=1\n"+
		"Encrypt=0", serial)
}
