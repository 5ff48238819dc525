// Package services implements the remote collaborators of a sync: the Google Sheets REST API and the FreeDictionary API.
//
// # Capabilities
//
// The sync pipeline depends only on three small interfaces:
//   - [RangeReader] : rectangular reads from the source spreadsheet
//   - [TargetStore] : header/column reads, row inserts, appends and clears on the target
//   - [Dictionary] : single-word lookups
//
// # Google Sheets
//
// [SheetsService] implements both [RangeReader] and [TargetStore] against the Sheets v4 REST API.
// Requests are authorized by the [http.Client] returned from [NewSheetsClient], which signs JWT
// assertions with a service account key and refreshes tokens automatically.
// A [rate.Limiter] keeps request volume under the per-user quota.
//
// [SheetsService.Open] must be called once before any other method; it verifies the spreadsheet is
// reachable and resolves the worksheet (the first one when no name is configured).
//
// # FreeDictionary
//
// [DictionaryService] performs a single GET per word with a bounded timeout and maps the first
// meaning of the first entry to a [models.Record]. There is no retry.
//
// # Error Handling
//
// Services wrap sentinel errors from the shared package:
//   - [shared.ErrMissingCredentials] : no service account file configured or found
//   - [shared.ErrInvalidCredentials] : the key file could not be parsed
//   - [shared.ErrAPIRequest] : transport failure or non-2xx Sheets response
//   - [shared.ErrWordNotFound] : non-200 or unusable dictionary response
package services
