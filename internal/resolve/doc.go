// Package resolve maps noisy mod folder names onto catalog characters and
// costumes.
//
// Score wraps fzf's v2 matcher on normalized text and rescales it to 0..100
// against the pattern's self-match. Resolve picks the best character over
// slug, display name, and aliases, then the best costume of that character,
// and derives a confidence in [0, 1]. Callers load a Snapshot once per scan
// and reuse it for every folder.
package resolve
