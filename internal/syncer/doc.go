// Package syncer drives the instruction sync pipeline: merge configured
// sources, fetch each one, validate the content, compare it against the
// destination file, gate overwrites behind user confirmation, and write.
//
// # Pipeline
//
// A single Run processes workspace roots sequentially and, within each root,
// the merged sources sequentially. Sources apply to a root when they are
// enabled and their language matches one of the root's detected languages
// (case-insensitive). Every matching source is processed, so one language
// can feed several destination files. A failure on one source is recorded
// and the run continues.
//
// # Confirmation
//
// Each run holds one Session. When confirmation is required, changed files
// go through a Prompter offering Yes, Yes to All, No, and Always. Yes to All
// flips the session's confirmAll flag so the rest of the run writes without
// prompting; Always additionally persists the preference through the
// DisableConfirm hook. A dismissed prompt counts as No.
//
// # Collaborators
//
// The orchestrator performs no I/O of its own. Fetching, file access,
// workspace enumeration, and prompting are injected:
//
//	s := syncer.New(fetcher, store, scanner, prompter)
//	result, err := s.Run(ctx, remoteSources, localSources, syncer.Options{
//	    Confirm: true,
//	})
//	fmt.Print(result.Summary())
package syncer
