// Package generate turns a template directory into a project.
//
// Generation runs in three phases, each with its own type:
//
//   - Resolver asks the definition's questions in order and produces a
//     frozen definition.Context. A variable whose only_if condition does
//     not hold is skipped entirely: no prompt and no entry in the context.
//   - Walker visits the template tree depth-first, rendering every relative
//     path and every text file through the render engine. Files matching a
//     copy_without_render glob, and files that look binary, are copied
//     byte for byte. Ignore entries and version-control directories are
//     never visited.
//   - Cleaner applies the cleanup rules whose condition matches the
//     answers, removing rendered paths from the output.
//
// Generator chains the phases behind a single Run call. Without atomic
// staging a failure leaves whatever was written so far in place.
package generate
