package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type ArchiveResult struct {
	Key      string
	Location string
	ETag     string
}

// RoundArchiver stores round snapshots as JSON objects.
type RoundArchiver interface {
	Archive(ctx context.Context, key string, snapshot interface{}) (*ArchiveResult, error)

	GetPublicURL(key string) string
}

var roundNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("swiss-tournament/rounds"))

// RoundKey names the object for a round of the field made up of playerIDs,
// e.g. rounds/round-003-5b1e....json. The key is a name-based UUID, so asking
// for the same round of the same field again overwrites the same object.
func RoundKey(round int, playerIDs []int) string {
	ids := append([]int(nil), playerIDs...)
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	field := uuid.NewSHA1(roundNamespace, []byte(strings.Join(parts, ",")))
	return fmt.Sprintf("rounds/round-%03d-%s.json", round, field)
}
