// Package voting owns the vote ledger and the per-poll tallies, and
// implements the cast/change-vote state machine.
//
// For a (username, poll) pair there are exactly two states: unvoted, or
// voted for one option. Casting moves between them; changing a vote moves
// one count from the old option to the new one inside a single critical
// section, so no reader ever observes a partially applied change. The
// tallies always satisfy: sum of counts == number of distinct voters.
package voting
