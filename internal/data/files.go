package data

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Content file names inside the data directory.
const (
	FilePlayers  = "players.yaml"
	FileSkills   = "skills.yaml"
	FileItems    = "items.yaml"
	FileMonsters = "monsters.yaml"
	FileBosses   = "bosses.yaml"
	FileDungeons = "dungeons.yaml"
)

type contentFile struct {
	name     string
	optional bool
}

// contentFiles order is also the fingerprint order.
var contentFiles = []contentFile{
	{name: FilePlayers},
	{name: FileSkills},
	{name: FileItems},
	{name: FileMonsters},
	{name: FileBosses, optional: true},
	{name: FileDungeons, optional: true},
}

// rawFiles holds file bytes keyed by name; absent optional files are nil.
type rawFiles map[string][]byte

// readFiles reads every content file concurrently.
// A cancelled ctx or the first read error stops the remaining reads.
func readFiles(ctx context.Context, fsys fs.FS) (rawFiles, error) {
	bufs := make([][]byte, len(contentFiles))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range contentFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := fs.ReadFile(fsys, f.name)
			if err != nil {
				if f.optional && errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return fmt.Errorf("reading %s: %w", f.name, err)
			}
			bufs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(rawFiles, len(contentFiles))
	for i, f := range contentFiles {
		out[f.name] = bufs[i]
	}
	return out, nil
}

// fingerprint hashes file names and contents in a fixed order.
func (r rawFiles) fingerprint() string {
	h, _ := blake2b.New256(nil)
	for _, f := range contentFiles {
		h.Write([]byte(f.name))
		h.Write([]byte{0})
		h.Write(r[f.name])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// decode unmarshals one file. Missing optional files leave out untouched.
func (r rawFiles) decode(name string, out any) error {
	b := r[name]
	if b == nil {
		return nil
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return &ValidationError{File: name, Reason: err.Error()}
	}
	return nil
}
