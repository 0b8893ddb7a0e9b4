// Package password implements the default hashing collaborator with Argon2id.
//
// # Output format
//
// Digests are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Compare decodes the parameters from the digest itself, so stored digests
// keep verifying after the configured parameters change.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive
//     digests.
//   - Import any other goIAM package.
//   - Log plaintext passwords.
package password
