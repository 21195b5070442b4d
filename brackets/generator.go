package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

type PairingParams struct {
	Standings []models.Standing
	History   *History
}

// PairingGenerator builds the next round from the current standings.
type PairingGenerator interface {
	GeneratePairings(ctx context.Context, params PairingParams) ([]models.Pairing, error)

	GetName() string
}
