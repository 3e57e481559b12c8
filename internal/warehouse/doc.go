// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Package warehouse loads the committed CSV artifacts into DuckDB.

The warehouse is optional and read-only from the pipeline's point of view: it
is rebuilt from rating_df.csv, anime_df.csv and synopsis_df.csv after each
successful run so analysts can query the snapshot with SQL:

	duckdb artifacts/warehouse.duckdb \
	  "SELECT eng_version, Score FROM anime ORDER BY Score DESC LIMIT 10"

Tables:
  - ratings: user_id, anime_id, rating (scaled), user, anime (dense indices)
  - anime: the ranked metadata projection
  - synopsis: MAL_ID, Name, Genres, sypnopsis (all VARCHAR)
*/
package warehouse
