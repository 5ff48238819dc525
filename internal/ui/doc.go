// Package ui implements an interactive sync dashboard using bubbletea's Elm architecture.
//
// The dashboard walks through a sync in views:
//  1. [PlanningView] : Read the source ranges and the target's existing words
//  2. [PlanView] : Browse the worklist of new words
//  3. [ConfirmView] : Confirm the sync
//  4. [SyncView] : Monitor lookups with a spinner, a progress bar and recent outcomes
//  5. [ResultView] : Display the final summary and failed words
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel fed by the engine's progress callback, so the engine never blocks on rendering.
//
// The word list scrolls with the list defaults (j/k, arrows, / to filter). Each view shows only the keys it
// handles (enter, y, n/esc, r, q) through charmbracelet/bubbles/help.
package ui
