/*
Package collection provides generic helpers over any type that satisfies the sequential-access
capability types.Collection, or the zero-based integer-indexed capability types.Indexed.

# Operations

  - Indices materializes every valid position of a collection, in traversal order.
  - ForEachInParallel calls a visitor once per element on a fixed worker pool and blocks until
    every call has returned.
  - ForEachInParallelErr is the error-returning, context-aware variant built on errgroup.
  - SafeIndex returns the element at a position, or reports that the position is invalid.
  - RandomItem returns a pseudo-random element of an Indexed collection.
  - Average returns the arithmetic mean of an integer collection, 0 when empty.

# Adapters

Slice, List and Queue adapt a Go slice, a container/list and an eapache ring-buffer queue.
List positions are *list.Element values, so they can only be reached by walking the list.

# Failure Policies

A visitor that panics (or, for ForEachInParallelErr, returns an error) is handled according to
the configured Policy:

	collection.ForEachInParallel(items, visit,
		collection.WithPolicy(collection.PolicyContinue),
		collection.WithLogger(logger),
	)

PolicyPropagate runs every element and then re-raises the first failure in the caller.
PolicyAbort skips elements that have not started once a failure is seen.
PolicyContinue logs each failure and returns normally.

# Concurrency

The collection must not be modified while an iteration is running. Visitors that share state
must synchronize it themselves; the order in which elements are visited is unspecified.
*/
package collection
