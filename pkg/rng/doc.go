// Package rng: the mixing algorithm (SplitMix64) and the output generator
// (xoroshiro128**) are a permanent, documented choice. spec.md leaves the
// concrete PRNG algorithm as implementation freedom as long as derivation
// is a pure, associative function of (seed, tick, agent). Once an
// algorithm is chosen here, changing it changes every artifact byte for
// byte, so it is not expected to change again.
package rng
