// Package cache is the durable best-move cache. A best move for a position
// never changes, so entries are never invalidated, evicted, or expired.
package cache

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/config"
	"github.com/buendia/tictactoe/move"
)

var ErrStorageUnavailable = errors.New("move cache storage unavailable")

// Store maps canonical position keys to best moves. Set on an existing key
// overwrites it. Stores are not safe for use by several processes at once.
type Store interface {
	Get(key string) (move.Move, bool, error)
	Set(key string, m move.Move) error
	Close() error
}

// Open creates the store selected by the config, rooted at its data path.
func Open(cfg *config.Config) (Store, error) {
	backend := cfg.GetString(config.ConfigCacheBackend)
	root := cfg.GetString(config.ConfigDataPath)
	if backend != config.BackendMemory {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
	}
	var s Store
	var err error
	switch backend {
	case config.BackendSQLite:
		s, err = OpenSQLite(root)
	case config.BackendFS:
		s, err = OpenFS(root)
	case config.BackendMemory:
		s = NewMemoryStore()
	default:
		err = fmt.Errorf("%w: unknown backend %q", ErrStorageUnavailable, backend)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", backend).Str("root", root).Msg("opened-move-cache")
	return s, nil
}
