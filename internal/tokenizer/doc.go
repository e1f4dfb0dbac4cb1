// Package tokenizer defines the token element produced by redpen tokenizers.
// Invariants:
//   - TokenElement.Surface is fixed at construction and never changes.
//   - Tags() never returns nil and always hands out the element's own sequence;
//     tags added through it are visible to every later Tags() call.
//   - Tag order is exactly the order in which tags were supplied or added.
//   - Constructors copy caller slices; the element never aliases its input.
//
// Elements carry no locking. A tokenizer owns an element while it tags it and
// publishes it read-only afterwards; use Clone to hand off a mutable copy.
package tokenizer
