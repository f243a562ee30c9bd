package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/buendia/tictactoe/move"
)

// FSStore keeps one small file per entry under a root directory. File names
// are the xxhash of the key; each file repeats the key on its first line so
// a hash collision reads back as a miss instead of a wrong move.
type FSStore struct {
	root string
}

// OpenFS roots a store at dir, creating it if needed.
func OpenFS(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, strconv.FormatUint(xxhash.Sum64String(key), 16)+".move")
}

func (s *FSStore) Get(key string) (move.Move, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return move.Move{}, false, nil
	}
	if err != nil {
		return move.Move{}, false, err
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 2 || lines[0] != quoteKey(key) {
		log.Debug().Str("key", key).Str("file", s.path(key)).Msg("fs-cache-collision")
		return move.Move{}, false, nil
	}
	m, err := move.Parse(lines[1])
	if err != nil {
		return move.Move{}, false, err
	}
	return m, true, nil
}

func (s *FSStore) Set(key string, m move.Move) error {
	tmp, err := os.CreateTemp(s.root, ".move-*")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(tmp, "%s\n%s\n", quoteKey(key), m.String())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *FSStore) Close() error {
	return nil
}

// Keys contain spaces; quoting keeps trailing ones visible in the file.
func quoteKey(key string) string {
	return strconv.Quote(key)
}
