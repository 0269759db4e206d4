// Package strategy implements the directive generators that drive a
// fuzzing run.
//
// Four algorithms are provided:
//
//   - random: fresh uniformly random id/payload each call, unless a
//     static override pins a field
//   - linear: replays a corpus file line by line
//   - ring_bf: brute-force enumeration of the payload (and optionally
//     the id) via the ring-carry enumerator
//   - mutate: random redraw of the digit positions a bitmap marks free
//
// Every generator satisfies ports.Generator. Bounded generators signal
// domain.ErrExhausted when their space is complete; unbounded ones run
// until the caller cancels.
package strategy
