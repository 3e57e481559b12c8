// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

/*
Package preprocess turns the raw ratings table into model-ready arrays.

The encoder stage applies, strictly in order:

 1. FilterUsers drops users with fewer than min_ratings ratings (default 400)
 2. ScaleRatings min-max scales ratings to [0, 1]
 3. Encode builds dense user and anime codebooks (first-seen order by default)
 4. ShuffleSplit shuffles with a fixed seed (default 43) and holds out the
    last test_size rows (default 1000) as the test partition

Processor.Run chains the steps and commits the artifacts through an
artifact.Stage, so a failed run leaves the previous artifacts in place.

Failures are typed: *DegenerateRangeError when every rating is equal, and
*InsufficientDataError when fewer rows than test_size survive filtering.
*/
package preprocess
