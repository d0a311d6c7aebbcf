package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating guest player names
var adjectives = []string{
	"swift", "sharp", "rapid", "keen", "nimble", "bright", "quick", "clever",
	"bold", "steady", "fierce", "calm", "vivid", "daring", "agile", "alert",
	"cosmic", "electric", "blazing", "mighty", "sly", "zippy", "snappy", "turbo",
	"prime", "lucid", "stellar", "dashing", "fearless", "lightning", "crimson", "golden",
}

var nouns = []string{
	"falcon", "cheetah", "comet", "bolt", "flash", "rocket", "panther", "viper",
	"lynx", "puma", "hawk", "raven", "cobra", "jaguar", "meteor", "phantom",
	"arrow", "blur", "spark", "pulse", "dart", "racer", "streak", "whirl",
	"mind", "ace", "whiz", "sprinter", "dynamo", "reflex", "synapse", "neuron",
}

// GenerateGuestName generates a random display name in the format
// "adjective-noun" for players who skip registration
func GenerateGuestName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
