package container

import (
	"fmt"
	"math/rand"
)

// ownerCode is the four-letter shipping-line prefix of every container id.
const ownerCode = "ZIMU"

var sizeClasses = []string{"20ft", "40ft", "40ft HC", "45ft HC"}

var cargoClasses = []string{
	"General Cargo", "Electronics", "Textiles", "Machinery",
	"Food Products", "Chemicals", "Auto Parts", "Furniture",
}

// reeferShare is the fraction of the fleet that is refrigerated.
const reeferShare = 0.15

// Metadata is the immutable identity and classification of a container.
type Metadata struct {
	ContainerID  string
	TrackerID    string
	AssetID      int
	SizeClass    string
	Refrigerated bool
	CargoClass   string
}

// NewMetadata generates a realistic container identity from the given random
// source: an 11-char shipping-line id (owner code + 7 digits), a tracker
// serial, and an asset id in the tracker platform's range.
func NewMetadata(rng *rand.Rand) Metadata {
	return Metadata{
		ContainerID:  fmt.Sprintf("%s%07d", ownerCode, rng.Intn(10000000)),
		TrackerID:    fmt.Sprintf("A%07d", rng.Intn(10000000)),
		AssetID:      30000 + rng.Intn(10000),
		SizeClass:    sizeClasses[rng.Intn(len(sizeClasses))],
		Refrigerated: rng.Float64() < reeferShare,
		CargoClass:   cargoClasses[rng.Intn(len(cargoClasses))],
	}
}
