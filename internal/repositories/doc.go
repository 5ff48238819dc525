// Package repositories implements SQLite persistence.
//
// Key Implementations:
//   - [RunRepository] : sync run history (runs and run_failures tables) with status tracking
//     from running to completed or failed
//   - [VocabularyRepository] : a local [services.TargetStore] used when target.kind is "sqlite"
//
// [Open] connects, applies pool limits and runs the embedded migrations from the shared package.
package repositories
