// Package testutil provides testing utilities for strigo.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic string corpora: vocabularies of distinct
// words and skewed columns drawn from them.
//
// # Corpus Generation
//
//	rng := testutil.NewRNG(seed)
//	vocab := rng.Vocabulary(500, 3, 12)     // 500 distinct words
//	column := rng.Column(10_000, vocab, 1.1) // Zipf-skewed column
//
// The same seed always yields the same corpus, so failures reproduce.
package testutil
