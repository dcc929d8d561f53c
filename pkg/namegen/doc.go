/*
Package namegen generates plausible names from character-level Markov chains.

A Generator samples a name letter by letter from a chain.Table, using the whole
name built so far as the n-gram key. This makes the chain variable-order: the
first letter is chosen from unigram context, and every later letter is
conditioned on everything before it. Unseen contexts trigger a bounded number of
restarts, after which generation degrades to the last letter's row and finally
to uniform selection, so Generate always terminates.

All randomness comes from an injectable Source, which makes generation
reproducible under a seeded or scripted source.
*/
package namegen
