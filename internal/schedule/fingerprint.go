package schedule

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/roster"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/derekprior/lineup/schedule"))

// Fingerprint derives a stable schedule ID from everything the plan depends
// on. Equal inputs give equal IDs across runs and machines.
func Fingerprint(available []roster.Player, cfg *config.Config, strategyName string, swapKeepers bool) (string, error) {
	payload := struct {
		Players     []roster.Player `json:"players"`
		Config      config.Config   `json:"config"`
		Strategy    string          `json:"strategy"`
		SwapKeepers bool            `json:"swap_keepers"`
	}{available, *cfg, strategyName, swapKeepers}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding plan inputs: %w", err)
	}
	return uuid.NewSHA1(namespace, data).String(), nil
}
