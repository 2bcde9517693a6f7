// Package overlap turns "this query sentence resembles these corpus sentences"
// into exact highlighted character ranges and an overlap percentage.
//
// Both sides are normalised with Normalize, split into contiguous three-word
// phrases, and weighted with TF-IDF fitted on the candidate sentences only.
// Matched phrases are located in the original query text, merged into
// disjoint spans and rendered as overlap/unmarked segments.
//
// Everything here is a pure function of its inputs. The phrase Vocabulary is
// built per call and passed explicitly; nothing is cached between requests.
package overlap
