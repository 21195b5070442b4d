package services

import (
	"errors"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// Errors returned by the service layer and mapped to HTTP statuses by handlers.
var (
	// Storage could not be reached. Shared with the repositories so that
	// wrapped driver errors match too.
	ErrStorageUnavailable = repositories.ErrStorageUnavailable

	// Validation and preconditions
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrInvalidPlayerID    = errors.New("player id must be positive")
	ErrSelfMatch          = errors.New("a player cannot win against themselves")
	ErrOddPlayerCount     = brackets.ErrOddPlayerCount

	// Missing or conflicting records
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayersHaveResults = errors.New("players still have recorded matches or byes; delete them first")
)
