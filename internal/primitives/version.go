package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion returns a deterministic version for a tree.
// Priority: user-provided config.Version, else SHA256(config JSON)[:8].
func ComputeVersion(config *TreeConfig) string {
	if config.Version != "" {
		return config.Version
	}

	data, err := json.Marshal(config)
	if err != nil {
		// Param defaults that cannot be marshalled still need a stable answer.
		return "unversioned-" + config.ID
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
