// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/animeprep/internal/artifact"
	"github.com/tomtom215/animeprep/internal/codebookindex"
	"github.com/tomtom215/animeprep/internal/config"
)

var errNotInCodebook = errors.New("not in codebook")

// codebookLookup maps between external ids and dense indices for one entity.
type codebookLookup interface {
	encode(id int64) (int32, bool, error)
	decode(idx int32) (int64, bool, error)
	close() error
}

type indexLookup struct {
	ix     *codebookindex.Index
	entity codebookindex.Entity
}

func (l indexLookup) encode(id int64) (int32, bool, error)  { return l.ix.Encode(l.entity, id) }
func (l indexLookup) decode(idx int32) (int64, bool, error) { return l.ix.Decode(l.entity, idx) }
func (l indexLookup) close() error                          { return l.ix.Close() }

// artifactLookup reads the committed JSON codebooks.
type artifactLookup struct {
	enc map[int64]int32
	dec map[int32]int64
}

func (l artifactLookup) encode(id int64) (int32, bool, error) {
	v, ok := l.enc[id]
	return v, ok, nil
}

func (l artifactLookup) decode(idx int32) (int64, bool, error) {
	v, ok := l.dec[idx]
	return v, ok, nil
}

func (artifactLookup) close() error { return nil }

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var index int64

	cmd := &cobra.Command{
		Use:   "lookup (user|anime) [id]",
		Short: "Map an external id to its dense index, or --index back to the id",
		Example: "  animeprep lookup anime 5114\n" +
			"  animeprep lookup user --index 0",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entity := codebookindex.Entity(args[0])
			if entity != codebookindex.EntityUser && entity != codebookindex.EntityAnime {
				return fmt.Errorf("%w: %q", codebookindex.ErrUnknownEntity, args[0])
			}

			decode := cmd.Flags().Changed("index")
			if decode == (len(args) == 2) {
				return errors.New("give either an id argument or --index")
			}

			var id int64
			if decode {
				if index < 0 || index > math.MaxInt32 {
					return fmt.Errorf("index %d out of range", index)
				}
			} else if id, err = strconv.ParseInt(args[1], 10, 64); err != nil {
				return fmt.Errorf("invalid %s id %q: %w", entity, args[1], err)
			}

			l, err := openLookup(cfg, entity, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = l.close() }()

			out := cmd.OutOrStdout()
			if decode {
				id, ok, err := l.decode(int32(index)) //nolint:gosec // range checked above
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s index %d: %w", entity, index, errNotInCodebook)
				}
				fmt.Fprintf(out, "%s index %d -> id %d\n", entity, index, id)
				return nil
			}

			idx, ok, err := l.encode(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s id %d: %w", entity, id, errNotInCodebook)
			}
			fmt.Fprintf(out, "%s id %d -> index %d\n", entity, id, idx)
			return nil
		},
	}

	cmd.Flags().Int64Var(&index, "index", 0, "Dense index to decode")
	return cmd
}

// openLookup prefers the codebook index and falls back to the JSON artifacts
// when the index is disabled or holds codebooks of another encoder run.
func openLookup(cfg *config.Config, entity codebookindex.Entity, warn io.Writer) (codebookLookup, error) {
	if cfg.CodebookIndex.Enabled {
		ix, err := codebookindex.Open(cfg.CodebookIndex)
		if err != nil {
			return nil, err
		}
		var stale *codebookindex.StaleError
		switch err := ix.CheckCurrent(cfg.Paths.ProcessedDir); {
		case err == nil:
			return indexLookup{ix: ix, entity: entity}, nil
		case errors.As(err, &stale):
			_ = ix.Close()
			fmt.Fprintf(warn, "Warning: %v; reading the JSON codebooks instead\n", stale)
		default:
			_ = ix.Close()
			return nil, err
		}
	}

	ts, err := artifact.LoadTrainingSet(cfg.Paths.ProcessedDir)
	if err != nil {
		return nil, err
	}
	if entity == codebookindex.EntityUser {
		return artifactLookup{enc: ts.UserEncoded, dec: ts.UserDecoded}, nil
	}
	return artifactLookup{enc: ts.AnimeEncoded, dec: ts.AnimeDecoded}, nil
}
