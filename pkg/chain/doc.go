/*
Package chain defines the transition tables that drive name generation.

A Table maps an n-gram of lowercase letters to a Vector of 26 unnormalized
weights, one per letter that may follow it. Tables are produced offline from a
corpus of names and shipped as JSON objects; ParseTable decodes and validates
that form and Table.WriteJSON writes it back out.
*/
package chain
