// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package artifact

// Stage names. Each stage commits its own manifest.
const (
	StageEncoder  = "encoder"
	StageMetadata = "metadata"
)

// Encoder stage artifacts.
const (
	UserEncodedFile  = "user2user_encoded.json"
	UserDecodedFile  = "user2user_decoded.json"
	AnimeEncodedFile = "anime2anime_encoded.json"
	AnimeDecodedFile = "anime2anime_decoded.json"
	XTrainFile       = "X_train_array.json"
	XTestFile        = "X_test_array.json"
	YTrainFile       = "y_train.json"
	YTestFile        = "y_test.json"
	RatingTableFile  = "rating_df.csv"
)

// Metadata stage artifacts.
const (
	AnimeTableFile    = "anime_df.csv"
	SynopsisTableFile = "synopsis_df.csv"
)

// EncoderFiles lists every file the encoder stage commits.
var EncoderFiles = []string{
	UserEncodedFile, UserDecodedFile,
	AnimeEncodedFile, AnimeDecodedFile,
	XTrainFile, XTestFile, YTrainFile, YTestFile,
	RatingTableFile,
}

// MetadataFiles lists every file the metadata stage commits.
var MetadataFiles = []string{AnimeTableFile, SynopsisTableFile}

// ManifestName returns the manifest file name of stage.
func ManifestName(stage string) string {
	return stage + ".manifest.json"
}
