// internal/action/headers.go
package action

import "net/http"

// Headers builds the fixed header set carried on every action response:
// protocol version, declared chains and the CORS set wallets expect.
func Headers(version, blockchainIDs string) http.Header {
	headers := http.Header{}
	headers.Set("X-Action-Version", version)
	headers.Set("X-Blockchain-Ids", blockchainIDs)
	headers.Set("Access-Control-Allow-Origin", "*")
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
	headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding")
	headers.Set("Content-Type", "application/json")
	return headers
}
